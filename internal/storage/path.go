package storage

import (
	"strings"
)

// ProviderHint is derived from the URI scheme of a path.
type ProviderHint string

const (
	HintS3    ProviderHint = "s3"
	HintMinIO ProviderHint = "minio"
	HintLocal ProviderHint = "local"
)

// Path is a provider-neutral address of a stored object. Bucket is empty
// for local paths; Key carries the object key or filesystem path.
type Path struct {
	Bucket string
	Key    string
	Raw    string
	Hint   ProviderHint
}

// ParsePath parses a URI into a Path. Supported forms:
//
//	s3://bucket/key/path
//	minio://bucket/key/path
//	/absolute/local/path
//	relative/local/path
func ParsePath(uri string) Path {
	for _, scheme := range []ProviderHint{HintS3, HintMinIO} {
		prefix := string(scheme) + "://"
		if strings.HasPrefix(uri, prefix) {
			rest := strings.TrimPrefix(uri, prefix)
			bucket, key, _ := strings.Cut(rest, "/")
			return Path{Bucket: bucket, Key: key, Raw: uri, Hint: scheme}
		}
	}
	return Path{Key: uri, Raw: uri, Hint: HintLocal}
}

// FileName returns the last path segment of the key.
func (p Path) FileName() string {
	if p.Key == "" {
		return ""
	}
	if i := strings.LastIndexByte(p.Key, '/'); i >= 0 {
		return p.Key[i+1:]
	}
	return p.Key
}

// Extension returns the lower-case file extension without the dot.
func (p Path) Extension() string {
	name := p.FileName()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[i+1:])
	}
	return ""
}

// Child appends a segment to the path.
func (p Path) Child(segment string) Path {
	key := segment
	if p.Key != "" {
		key = strings.TrimSuffix(p.Key, "/") + "/" + segment
	}
	raw := strings.TrimSuffix(p.Raw, "/") + "/" + segment
	return Path{Bucket: p.Bucket, Key: key, Raw: raw, Hint: p.Hint}
}

func (p Path) String() string {
	return p.Raw
}
