package log

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type formatter struct {
	pattern string
	time    string
}

// Format renders entries through the configured pattern. Supported tokens:
// %time, %level, %field, %msg, %caller, %n.
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	output := f.pattern
	output = strings.Replace(output, "%time", entry.Time.Format(f.time), 1)
	output = strings.Replace(output, "%level", entry.Level.String(), 1)
	output = strings.Replace(output, "%field", buildFields(entry), 1)
	output = strings.Replace(output, "%msg", entry.Message, 1)
	output = strings.Replace(output, "%caller", getCaller(entry), 1)
	output = strings.Replace(output, "%n", "\n", 1)
	return []byte(output), nil
}

// getCaller returns file:line of the logging call site, falling back to the
// runtime stack when logrus caller reporting is off.
func getCaller(entry *logrus.Entry) string {
	if entry.HasCaller() {
		return fmt.Sprintf("%s:%d", trimPath(entry.Caller.File), entry.Caller.Line)
	}
	_, file, line, ok := runtime.Caller(8)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", trimPath(file), line)
}

func trimPath(file string) string {
	if idx := strings.LastIndex(file, "/"); idx >= 0 && idx+1 < len(file) {
		return file[idx+1:]
	}
	return file
}

// buildFields renders entry fields as key=value pairs in key order, so the
// same entry always formats the same way.
func buildFields(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, k+"="+fmt.Sprint(entry.Data[k]))
	}
	return strings.Join(fields, ",")
}
