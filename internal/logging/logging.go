package logging

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
)

// Format is a single line "[time] [LEVEL]: message" formatter.
type Format struct{}

func (f Format) Format(entry *log.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')
	buf.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString("] [")
	buf.WriteString(strings.ToUpper(entry.Level.String()))
	buf.WriteString("]: ")
	buf.WriteString(entry.Message)
	for k, v := range entry.Data {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(toString(v))
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Setup configures the standard logrus logger.
func Setup(out io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetOutput(out)
	log.SetFormatter(Format{})
	log.SetLevel(lvl)
	return nil
}

// RotatingWriter returns a writer to daily log files under dir. Files older
// than maxAge are removed on rotation.
func RotatingWriter(dir string, maxAge time.Duration) (io.Writer, error) {
	w, err := rotatelogs.New(path.Join(dir, "%Y-%m-%d.log"),
		rotatelogs.WithRotationTime(time.Hour*24),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func toString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
