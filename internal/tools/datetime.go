package tools

import (
	"context"
	"time"
)

// DateTime reports the current date and time.
type DateTime struct {
	// now is swappable for tests.
	now func() time.Time
}

// NewDateTime creates the datetime tool.
func NewDateTime() *DateTime {
	return &DateTime{now: time.Now}
}

func (d *DateTime) Name() string { return "datetime" }

func (d *DateTime) Description() string {
	return "Get the current date and time."
}

func (d *DateTime) Parameters() map[string]ParamSpec {
	return map[string]ParamSpec{
		"timezone": {
			Type:        "string",
			Description: "IANA timezone name, e.g. \"Europe/London\". Defaults to local time.",
			Required:    false,
		},
	}
}

func (d *DateTime) Call(_ context.Context, params map[string]any) (any, error) {
	now := d.now()

	if tz, ok := params["timezone"].(string); ok && tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, err
		}
		now = now.In(loc)
	}

	return map[string]any{
		"datetime": now.Format(time.RFC3339),
		"date":     now.Format("2006-01-02"),
		"time":     now.Format("15:04:05"),
		"weekday":  now.Weekday().String(),
		"timezone": now.Location().String(),
	}, nil
}
