package model

import (
	"errors"
	"math"
	"testing"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestParseProgress(t *testing.T) {
	raw := RawProgress{
		Status:     RawStatusDownloading,
		Percent:    f64(42.7),
		Speed:      f64(1048576),
		ETASec:     f64(30),
		TotalBytes: i64(500000000),
	}

	ev, err := ParseProgress(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(ev.Percent-42.7) > 1e-9 {
		t.Errorf("Expected percent 42.7, got %v", ev.Percent)
	}
	if ev.Speed != 1048576 {
		t.Errorf("Expected speed 1048576, got %v", ev.Speed)
	}
	if ev.ETASec != 30 {
		t.Errorf("Expected ETA 30, got %d", ev.ETASec)
	}
	if ev.TotalBytes != 500000000 {
		t.Errorf("Expected total 500000000, got %d", ev.TotalBytes)
	}
}

func TestParseProgress_OptionalFields(t *testing.T) {
	ev, err := ParseProgress(RawProgress{Status: RawStatusDownloading, Percent: f64(10)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ev.ETASec != -1 || ev.Speed != 0 || ev.TotalBytes != 0 {
		t.Errorf("Expected unknown optional fields, got %+v", ev)
	}
}

func TestParseProgress_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  RawProgress
		want error
	}{
		{"finished status", RawProgress{Status: RawStatusFinished, Percent: f64(100)}, ErrProgressIgnored},
		{"post processing", RawProgress{Status: RawStatusPostProcessing}, ErrProgressIgnored},
		{"missing percent", RawProgress{Status: RawStatusDownloading}, ErrMalformedProgress},
		{"negative percent", RawProgress{Status: RawStatusDownloading, Percent: f64(-1)}, ErrMalformedProgress},
		{"nan percent", RawProgress{Status: RawStatusDownloading, Percent: f64(math.NaN())}, ErrMalformedProgress},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseProgress(test.raw)
			if !errors.Is(err, test.want) {
				t.Errorf("Expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestParseProgress_ClampsPercent(t *testing.T) {
	ev, err := ParseProgress(RawProgress{Status: RawStatusDownloading, Percent: f64(100.4)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ev.Percent != 100 {
		t.Errorf("Expected percent clamped to 100, got %v", ev.Percent)
	}
}

func TestProgressEvent_String(t *testing.T) {
	ev := ProgressEvent{Percent: 42.7, Speed: 1048576, ETASec: 30, TotalBytes: 500000000}
	expected := "42.7% of 476.8 MiB at 1.0 MiB/s ETA 00:30"
	if got := ev.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}

	unknown := ProgressEvent{Percent: 5, ETASec: -1}
	if got := unknown.String(); got != "5.0% at — ETA —" {
		t.Errorf("String() = %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, test := range tests {
		if got := FormatFileSize(test.bytes); got != test.expected {
			t.Errorf("FormatFileSize(%d) = %q, expected %q", test.bytes, got, test.expected)
		}
	}
}

func TestProgressEvent_Fraction(t *testing.T) {
	if got := (ProgressEvent{Percent: 25}).Fraction(); got != 0.25 {
		t.Errorf("Fraction() = %v, expected 0.25", got)
	}
}
