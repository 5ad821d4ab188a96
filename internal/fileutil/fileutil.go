package fileutil

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// CopyLines copies src to dst line by line. Every line written, including
// the last one, ends with a newline.
func CopyLines(dst io.Writer, src io.Reader) error {
	w := bufio.NewWriter(dst)
	s := bufio.NewScanner(src)
	for s.Scan() {
		if _, err := w.Write(s.Bytes()); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// CopyFiles copies paths[0] into a newly created paths[1]. With fewer than two
// paths it copies stdin to stdout instead.
func CopyFiles(paths []string, stdin io.Reader, stdout io.Writer) error {
	if len(paths) < 2 {
		return CopyLines(stdout, stdin)
	}

	source, err := os.Open(paths[0])
	if err != nil {
		return errors.Wrap(err, "CopyFiles: open source")
	}
	defer source.Close()

	target, err := os.Create(paths[1])
	if err != nil {
		return errors.Wrap(err, "CopyFiles: create target")
	}

	if err := CopyLines(target, source); err != nil {
		target.Close()
		return errors.Wrap(err, "CopyFiles: copy")
	}
	return target.Close()
}

type Info struct {
	Path    string
	Name    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
	MIME    string
}

// Describe opens path and reports its metadata. MIME is detected from the
// content of regular files and left empty for directories.
func Describe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, "Describe: failed to open %s", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, errors.Wrapf(err, "Describe: failed to stat %s", path)
	}

	info := Info{
		Path:    path,
		Name:    st.Name(),
		Size:    st.Size(),
		Mode:    st.Mode(),
		ModTime: st.ModTime(),
		IsDir:   st.IsDir(),
	}
	if !info.IsDir {
		t, err := mimetype.DetectReader(f)
		if err != nil {
			return info, errors.Wrapf(err, "Describe: failed to detect type of %s", path)
		}
		info.MIME = t.String()
	}
	return info, nil
}
