package inventory

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	headerV1 = "# Sphinx inventory version 1"
	headerV2 = "# Sphinx inventory version 2"

	// len("# Project: ") == len("# Version: ")
	headerFieldPrefixLen = 11
)

var lineV2 = regexp.MustCompile(`(.+?)\s+(\S+)\s+(-?\d+)\s+?(\S*)\s+(.*)`)

// Parse reads an inventory payload. Relative item locations are resolved against baseURL.
func Parse(data []byte, baseURL string) (*Inventory, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	r := bufio.NewReader(bytes.NewReader(data))
	header, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var inv *Inventory
	switch header {
	case headerV1:
		inv, err = parseV1(r, base)
	case headerV2:
		inv, err = parseV2(r, base)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, header)
	}
	if err != nil {
		return nil, err
	}
	inv.Checksum = xxhash.Sum64(data)
	inv.Size = len(data)
	return inv, nil
}

func parseV1(r *bufio.Reader, base *url.URL) (*Inventory, error) {
	project, version, err := readProjectHeader(r)
	if err != nil {
		return nil, err
	}

	b := newBuilder()
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimRight(line, " \t\r\n"); line != "" {
			fields := strings.SplitN(strings.Join(strings.Fields(line), " "), " ", 3)
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed inventory line %q", line)
			}
			name, typ, location := fields[0], fields[1], fields[2]
			location = resolve(base, location)
			// version 1 did not add anchors to the location
			if typ == "mod" {
				typ = "py:module"
				location += "#module-" + name
			} else {
				typ = "py:" + typ
				location += "#" + name
			}
			b.add(Item{
				EntryType:   typ,
				Name:        name,
				ProjectName: project,
				Version:     version,
				URL:         location,
				DisplayName: "-",
			})
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read inventory: %w", err)
		}
	}

	return &Inventory{ProjectName: project, Version: version, Items: b.flatten()}, nil
}

func parseV2(r *bufio.Reader, base *url.URL) (*Inventory, error) {
	project, version, err := readProjectHeader(r)
	if err != nil {
		return nil, err
	}
	compression, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !strings.Contains(compression, "zlib") {
		return nil, fmt.Errorf("invalid inventory header (not compressed): %q", compression)
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open compressed body: %w", err)
	}
	defer zr.Close()
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress body: %w", err)
	}

	b := newBuilder()
	for _, line := range strings.Split(string(body), "\n") {
		m := lineV2.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
		if m == nil {
			continue
		}
		name, typ, location, display := m[1], m[2], m[4], m[5]
		if !strings.Contains(typ, ":") {
			// type should be "{domain}:{objtype}"
			continue
		}
		if typ == "py:module" && b.has(typ, name) {
			// old Sphinx versions listed modules twice; keep the first
			continue
		}
		if strings.HasSuffix(location, "$") {
			location = location[:len(location)-1] + name
		}
		b.add(Item{
			EntryType:   typ,
			Name:        name,
			ProjectName: project,
			Version:     version,
			URL:         resolve(base, location),
			DisplayName: display,
		})
	}

	return &Inventory{ProjectName: project, Version: version, Items: b.flatten()}, nil
}

func readProjectHeader(r *bufio.Reader) (project, version string, err error) {
	projectLine, err := readLine(r)
	if err != nil {
		return "", "", fmt.Errorf("read project header: %w", err)
	}
	versionLine, err := readLine(r)
	if err != nil {
		return "", "", fmt.Errorf("read version header: %w", err)
	}
	return headerValue(projectLine), headerValue(versionLine), nil
}

func headerValue(line string) string {
	if len(line) <= headerFieldPrefixLen {
		return ""
	}
	return line[headerFieldPrefixLen:]
}

// readLine returns the next line without its trailing whitespace.
// A final line without newline is returned with a nil error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, " \t\r\n"), nil
}

func resolve(base *url.URL, location string) string {
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(ref).String()
}
