package ssh

import (
	"regexp"
	"strings"
	"unicode"
)

var commandPattern = regexp.MustCompile(`^ssh\s+(?:-p\s+(\d+))?\s*([^@\s]+)@(\S+)`)

// Parse turns a pasted connection string into a Descriptor.
//
// Two forms are accepted: an ssh invocation ("ssh [-p PORT] user@host") and
// an ssh_config host block ("Host x" followed by HostName/Port/User lines).
// Parse never fails; input it cannot understand yields a Descriptor with an
// empty Host, which callers must reject.
func Parse(text string) Descriptor {
	d := Descriptor{Port: DefaultPort}
	text = strings.TrimSpace(text)

	if m := commandPattern.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			d.Port = m[1]
		}
		d.Username = m[2]
		d.Host = m[3]
		return d
	}

	inBlock := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Host ") {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}
		switch key {
		case "HostName":
			d.Host = value
		case "Port":
			d.Port = value
		case "User":
			d.Username = value
		}
	}

	return d
}

// splitKeyValue splits a config line on its first run of whitespace
func splitKeyValue(line string) (string, string, bool) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx <= 0 {
		return "", "", false
	}
	value := strings.TrimLeftFunc(line[idx:], unicode.IsSpace)
	if value == "" {
		return "", "", false
	}
	return line[:idx], value, true
}

// CommandString renders d in the ssh invocation form accepted by Parse
func (d Descriptor) CommandString() string {
	port := d.Port
	if port == "" {
		port = DefaultPort
	}
	if d.Username == "" {
		return "ssh -p " + port + " " + d.Host
	}
	return "ssh -p " + port + " " + d.Username + "@" + d.Host
}
