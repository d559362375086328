package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidReference ссылка не указывает на видео YouTube
var ErrInvalidReference = errors.New("invalid YouTube video reference")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID извлекает идентификатор видео из ссылки. Поддерживаются
// ссылки watch, youtu.be, shorts, embed, live и голый идентификатор.
func ParseVideoID(reference string) (string, error) {
	reference = strings.TrimSpace(reference)
	if videoIDPattern.MatchString(reference) {
		return reference, nil
	}

	raw := reference
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidReference
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch segments[0] {
		case "watch":
			id = u.Query().Get("v")
		case "shorts", "embed", "live", "v":
			if len(segments) > 1 {
				id = segments[1]
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrInvalidReference
	}
	return id, nil
}
