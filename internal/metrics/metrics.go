package metrics

import (
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Metrics defines the contract for logging metrics
type Metrics interface {
	LogEvent(eventName string, tags map[string]string, fields map[string]interface{})
	LogBanEvent(eventName string, mode string, items int)
	Close()
}

type metricsImpl struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPI
	org         string
	bucket      string
	defaultTags map[string]string // Constant tags, like instance ID
}

// Ensure metricsImpl implements Metrics
var _ Metrics = (*metricsImpl)(nil)

// NewMetricsImpl initializes the logger with constant tags
func NewMetricsImpl(url string, token string, org string, bucket string, defaultTags map[string]string) Metrics {
	client := influxdb2.NewClient(url, token)
	writeAPI := client.WriteAPI(org, bucket)

	return &metricsImpl{
		client:      client,
		writeAPI:    writeAPI,
		org:         org,
		bucket:      bucket,
		defaultTags: defaultTags,
	}
}

// Universal method to log an event with customizable tags and fields
func (m *metricsImpl) LogEvent(eventName string, tags map[string]string, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}

	point := influxdb2.NewPointWithMeasurement("ban_event").
		AddTag("event", eventName).
		SetTime(time.Now())

	// Add constant default tags
	for key, value := range m.defaultTags {
		point.AddTag(key, value)
	}

	// Add custom tags
	for key, value := range tags {
		point.AddTag(key, value)
	}

	// Add custom fields
	for key, value := range fields {
		point.AddField(key, value)
	}

	m.writeAPI.WritePoint(point)
}

// Specific method for logging ban lifecycle events
func (m *metricsImpl) LogBanEvent(eventName string, mode string, items int) {
	tags := map[string]string{}
	if mode != "" {
		tags["mode"] = mode
	}

	m.LogEvent(eventName, tags, map[string]interface{}{
		"items": strconv.Itoa(items),
	})
}

// Close flushes the write API and closes the client
func (m *metricsImpl) Close() {
	m.writeAPI.Flush()
	m.client.Close()
}
