package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type AddCaptionRequest struct {
	Text string `json:"text"`
	// seconds; omitted means the player's current position
	Time *float64 `json:"time,omitempty"`
}

// EditCaptionRequest accepts the value either as a JSON string or as a bare
// number, since numeric inputs post numbers.
type EditCaptionRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (r EditCaptionRequest) StringValue() (string, error) {
	raw := strings.TrimSpace(string(r.Value))
	if raw == "" || raw == "null" {
		return "", fmt.Errorf("%w: value is required", caption.ErrInvalidNumber)
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Value, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return raw, nil
}

type CaptionsResponse struct {
	session.View
	Index *int `json:"index,omitempty"`
	Count *int `json:"imported,omitempty"`
}

type ProgressRequest struct {
	Time float64 `json:"time"`
}

type SeekRequest struct {
	Fraction float64 `json:"fraction"`
}

type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}

type LoadMediaRequest struct {
	Path string `json:"path"`
}

type MediaResponse struct {
	Path        string  `json:"path"`
	ContentType string  `json:"content_type"`
	Duration    float64 `json:"duration"`
	HasAudio    bool    `json:"has_audio"`
	HasVideo    bool    `json:"has_video"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
}

func MediaToResponse(info *media.Info) MediaResponse {
	return MediaResponse{
		Path:        info.Path,
		ContentType: info.ContentType,
		Duration:    info.Seconds(),
		HasAudio:    info.HasAudio,
		HasVideo:    info.HasVideo,
		Width:       info.Width,
		Height:      info.Height,
	}
}
