/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- Error: *.err
- Business counters: <noun>.<verb>, e.g. listing.created
*/
package metrics

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Ender is returned by BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client prefixing every key with pkgName
func New(pkgName string) Service {
	ddTags := []string{
		// using host removes all tags associated with host
		// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
		"host:",
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if pod := os.Getenv("PODNAME"); pod != "" {
		ddTags = append(ddTags, "pod:"+pod)
	}

	return &Metrics{
		pkgName: pkgName,
		dd:      ddMetrics{ddTags: ddTags},
	}
}

// Metrics sends every bump to the statsd client pool with the package prefix
type Metrics struct {
	pkgName string
	dd      ddMetrics
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// recoverPanic keeps a malformed tag list from crashing the caller
func (mt *Metrics) recoverPanic(fn string, key string, tags []string) {
	if err := recover(); err != nil {
		mt.dd.bumpSum("metrics.panic", 1, 1, "func", fn, "key", mt.key(key)+"#"+strings.Join(tags, "#"))
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpavg", key, tags)
	mt.dd.bumpAvg(mt.key(key), val, 1, tags...)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpsum", key, tags)
	mt.dd.bumpSum(mt.key(key), val, 1, tags...)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumphistogram", key, tags)
	mt.dd.bumpHistogram(mt.key(key), val, 1, tags...)
}

// BumpTime starts a timer which is reported when End is called:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) (e Ender) {
	e = noopEnder{}
	defer mt.recoverPanic("bumptime", key, tags)
	return mt.dd.bumpTime(mt.key(key), 1, tags...)
}

type noopEnder struct{}

func (noopEnder) End() {}
