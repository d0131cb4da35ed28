package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return l
}

// SetOutput redirects every entry, e.g. to a file tee or a test buffer.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Writer returns the current sink so callers can restore it.
func Writer() io.Writer { return logger.Out }

func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// Logger exposes the underlying logrus logger for libraries that want one.
func Logger() *logrus.Logger { return logger }

func with(c *fiber.Ctx, err error, fields map[string]any) *logrus.Entry {
	f := logrus.Fields{}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		if status := c.Response().StatusCode(); status != 0 {
			f["status"] = status
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
	}
	if err != nil {
		f["err"] = err.Error()
	}
	if len(fields) > 0 {
		f["fields"] = fields
	}
	return logger.WithFields(f)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { with(c, nil, fields).Info(action) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	with(c, nil, fields).WithField("audit", true).Info(action)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	with(c, nil, fields).Warn(action)
}
func Warn(c *fiber.Ctx, action string, err error, fields map[string]any) {
	with(c, err, fields).Warn(action)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	with(c, err, fields).Error(action)
}

// Printf is for startup chatter that has no request attached.
func Printf(format string, args ...any) { logger.Infof(format, args...) }
