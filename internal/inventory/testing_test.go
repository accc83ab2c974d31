package inventory

import (
	"bytes"
	"compress/zlib"
	"strings"
	"testing"
)

// buildV2 returns a version 2 inventory with the given object lines.
func buildV2(t *testing.T, project, version string, lines ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(headerV2 + "\n")
	buf.WriteString("# Project: " + project + "\n")
	buf.WriteString("# Version: " + version + "\n")
	buf.WriteString("# The remainder of this file is compressed using zlib.\n")
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}
	return buf.Bytes()
}
