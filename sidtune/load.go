package sidtune

import (
	"os"
	"path/filepath"
	"strings"

	"yaspg/sidplayfp/curated"
)

// the extensions tried when looking for the companion of a two file tune
var defaultExtensions = []string{
	".sid", ".SID",
	".c64", ".C64",
	".prg", ".PRG",
	".dat", ".DAT",
	".inf", ".INF",
}

// LoadFile loads a tune from the file system. The extension list is used to
// find the companion file of a two file tune and may be nil. If
// separatorIsSlash is true then the path uses forward slashes regardless of
// the host platform.
func LoadFile(path string, extensions []string, separatorIsSlash bool) (*Tune, error) {
	t := New()
	t.SetFileNameExtensions(extensions)
	if err := t.Load(path, separatorIsSlash); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadBuffer creates a tune from memory. Only single file formats can be
// read from memory.
func ReadBuffer(data []byte) (*Tune, error) {
	t := New()
	if err := t.Read(data); err != nil {
		return nil, err
	}
	return t, nil
}

// Load replaces the contents of the tune with the tune in the file. On
// failure the tune is empty.
func (t *Tune) Load(path string, separatorIsSlash bool) error {
	t.clear()

	if separatorIsSlash {
		path = filepath.FromSlash(path)
	}

	data, err := readFile(path)
	if err != nil {
		return t.fail(err)
	}

	var infoPath, dataPath string

	switch {
	case isPSID(data):
		err = t.loadPSID(data)
		dataPath = path

	case isP00(data):
		err = t.loadP00(path, data)
		dataPath = path

	case isInfoFile(data):
		var c64 []byte
		dataPath, c64, err = t.companion(path, func(d []byte) bool {
			return !isInfoFile(d) && !isPSID(d)
		})
		if err == nil {
			err = t.loadInfoFile(data, c64)
		}
		infoPath = path

	default:
		var info []byte
		infoPath, info, err = t.companion(path, isInfoFile)
		if err == nil {
			err = t.loadInfoFile(info, data)
			dataPath = path
		} else if isPRG(path) {
			infoPath = ""
			err = t.loadPRG(data)
			dataPath = path
		} else {
			err = curated.Errorf(FormatError, "could not determine file format")
		}
	}

	if err != nil {
		t.clear()
		return t.fail(err)
	}

	t.info.Path = filepath.Dir(path) + string(filepath.Separator)
	t.info.DataFileName = filepath.Base(dataPath)
	if infoPath != "" {
		t.info.InfoFileName = filepath.Base(infoPath)
	}

	return nil
}

// Read replaces the contents of the tune with the tune in the buffer. On
// failure the tune is empty.
func (t *Tune) Read(data []byte) error {
	t.clear()

	if len(data) > maxFileSize {
		return t.fail(curated.Errorf(FormatError, "data is too large"))
	}

	var err error

	switch {
	case isPSID(data):
		err = t.loadPSID(data)
	case isP00(data):
		err = t.loadP00("", data)
	default:
		err = curated.Errorf(FormatError, "could not determine format of data")
	}

	if err != nil {
		t.clear()
		return t.fail(err)
	}

	return nil
}

func (t *Tune) clear() {
	t.info = Info{}
	t.c64data = nil
	t.songSpeed = [MaxSongs]Speed{}
}

func readFile(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, curated.Errorf(IoError, err)
	}
	if st.IsDir() {
		return nil, curated.Errorf(IoError, "path is a directory")
	}
	if st.Size() > maxFileSize {
		return nil, curated.Errorf(FormatError, "file is too large")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(IoError, err)
	}
	if len(data) == 0 {
		return nil, curated.Errorf(FormatError, "file is empty")
	}

	return data, nil
}

// find the other half of a two file tune. the companion has the same name as
// the file but a different extension
func (t *Tune) companion(path string, accept func([]byte) bool) (string, []byte, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	for _, ext := range t.extensions {
		candidate := base + ext
		if candidate == path {
			continue
		}

		data, err := readFile(candidate)
		if err != nil {
			continue
		}
		if accept(data) {
			return candidate, data, nil
		}
	}

	return "", nil, curated.Errorf(FormatError, "no companion file found")
}
