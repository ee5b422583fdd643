package trigger

import "strings"

// Match reports whether the relative document path matches pattern, for
// example "chats/{chatId}/messages/{messageId}", and returns the captured
// wildcard segments.
func Match(pattern, path string) (map[string]string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	ds := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(ds) {
		return nil, false
	}
	params := make(map[string]string)
	for i, seg := range ps {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if ds[i] == "" {
				return nil, false
			}
			params[seg[1:len(seg)-1]] = ds[i]
			continue
		}
		if seg != ds[i] {
			return nil, false
		}
	}
	return params, true
}

// relativePath strips the "projects/{p}/databases/{d}/documents/" prefix of a
// full Firestore resource name.
func relativePath(name string) string {
	const marker = "/documents/"
	if i := strings.Index(name, marker); i >= 0 {
		return name[i+len(marker):]
	}
	return strings.TrimPrefix(name, "documents/")
}
