package persist

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"strings"
)

// tempSuffix is the suffix SafeFile appends to a filename's temporary
// counterpart. LoadJSON refuses to open a path containing it, since such a
// path is an implementation detail of a save in progress, not a finished
// file.
const tempSuffix = ".tmp-"

// ErrBadFilenameSuffix is returned by LoadJSON when asked to load a filename
// that looks like a SafeFile temp file.
var ErrBadFilenameSuffix = errors.New("persist: refusing to load a path that looks like a temp file")

// Metadata identifies the format of a JSON file written by SaveJSON.
// LoadJSON refuses to load a file whose Metadata does not match the one it
// was called with, so that an old or foreign file is never silently
// misinterpreted as the expected type.
type Metadata struct {
	Header  string
	Version string
}

// jsonFile is the on-disk envelope SaveJSON writes: the caller's metadata,
// a checksum of the encoded payload, and the payload itself.
type jsonFile struct {
	Metadata Metadata
	Checksum string
	Data     json.RawMessage
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// SaveJSON encodes object as JSON, tags it with meta and a checksum, and
// writes it to filename via a SafeFile so that a concurrent reader, or a
// process killed mid-write, never sees a half-written file.
func SaveJSON(meta Metadata, object interface{}, filename string) error {
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	wrapper := jsonFile{
		Metadata: meta,
		Checksum: checksum(data),
		Data:     data,
	}
	full, err := json.MarshalIndent(wrapper, "", "\t")
	if err != nil {
		return err
	}

	sf, err := NewSafeFile(filename)
	if err != nil {
		return err
	}
	defer sf.Close()
	if _, err := sf.Write(full); err != nil {
		return err
	}
	return sf.Commit()
}

// LoadJSON reads filename, verifies that its Metadata matches meta and that
// its checksum is intact, and unmarshals its payload into object.
func LoadJSON(meta Metadata, object interface{}, filename string) error {
	if strings.Contains(filename, tempSuffix) {
		return ErrBadFilenameSuffix
	}
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	var wrapper jsonFile
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	if wrapper.Metadata.Header != meta.Header {
		return fmt.Errorf("persist: mismatched header: expected %q, got %q", meta.Header, wrapper.Metadata.Header)
	}
	if wrapper.Metadata.Version != meta.Version {
		return fmt.Errorf("persist: mismatched version: expected %q, got %q", meta.Version, wrapper.Metadata.Version)
	}
	if checksum(wrapper.Data) != wrapper.Checksum {
		return errors.New("persist: checksum mismatch, file may be corrupt")
	}
	return json.Unmarshal(wrapper.Data, object)
}
