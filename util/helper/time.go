package helper_util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Helper function to parse time
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

func ParseNullableTime(value interface{}) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}

// TruncateToBucket aligns a timestamp to the start of its cache bucket.
func TruncateToBucket(t time.Time, bucket time.Duration) time.Time {
	if bucket <= 0 {
		return t
	}
	return t.Truncate(bucket)
}

// BusinessHoursBounds returns the configured business-hours window as
// whole hours, falling back to 09:00-18:00 when nothing is configured.
func BusinessHoursBounds() (start, end int) {
	start = viper.GetInt("businesshours.start")
	end = viper.GetInt("businesshours.end")
	if start == 0 && end == 0 {
		return 9, 18
	}
	return start, end
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsBusinessHours reports whether t falls on a weekday inside the
// configured business-hours window.
func IsBusinessHours(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	start, end := BusinessHoursBounds()
	return t.Hour() >= start && t.Hour() < end
}
