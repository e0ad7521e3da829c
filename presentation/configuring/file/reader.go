package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"powertun/domain/session"
)

// Reader loads a JSON session configuration on top of a base configuration.
// Fields absent from the file keep their base values.
type Reader struct {
	path string
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) Read(base session.Config) (session.Config, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return base, session.NewConfigurationError(fmt.Sprintf("cannot read %s", r.path), err)
	}

	configuration := base
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&configuration); err != nil {
		return base, session.NewConfigurationError(fmt.Sprintf("invalid configuration file %s", r.path), err)
	}
	return configuration, nil
}
