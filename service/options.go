package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Clock func() time.Time

// CodeGenerator membuat id entitas, mis. prefix "CTR" -> CTR-20250101-8F3A.
type CodeGenerator func(prefix string, t time.Time) string

type options struct {
	now  Clock
	code CodeGenerator
}

type Option func(*options)

func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.now = c
		}
	}
}

func WithCodeGenerator(g CodeGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.code = g
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{
		now:  func() time.Time { return time.Now().UTC() },
		code: GenEntityCode,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func GenEntityCode(prefix string, t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("%s-%s-%s", prefix, t.Format("20060102"), suffix)
}

const (
	prefixContainer = "CTR"
	prefixEmoney    = "EM"

	// percobaan ulang kalau kode acak bentrok
	codeAttempts = 5
)
