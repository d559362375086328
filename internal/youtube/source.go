// Package youtube загружает комментарии к видео через YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
)

// pageSize максимум тредов на страницу, который разрешает API
const pageSize = 100

// ErrNoCredentials не задан ни API ключ, ни токен доступа
var ErrNoCredentials = errors.New("youtube: API key or access token is not configured")

// Options параметры подключения к YouTube Data API
type Options struct {
	APIKey      string
	AccessToken string
	Endpoint    string
}

// pager выдает одну страницу тредов комментариев
type pager interface {
	Page(ctx context.Context, videoID, pageToken string) (*ytapi.CommentThreadListResponse, error)
}

type apiPager struct {
	service *ytapi.Service
}

func (p apiPager) Page(ctx context.Context, videoID, pageToken string) (*ytapi.CommentThreadListResponse, error) {
	call := p.service.CommentThreads.
		List([]string{"snippet", "replies"}).
		VideoId(videoID).
		Order("time").
		TextFormat("plainText").
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

type disabledPager struct{}

func (disabledPager) Page(context.Context, string, string) (*ytapi.CommentThreadListResponse, error) {
	return nil, ErrNoCredentials
}

// Source источник комментариев к видео
type Source struct {
	pages  pager
	logger *zap.Logger
}

// New создает Source. Без учетных данных Source создается, но каждый
// Fetch возвращает ErrNoCredentials.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	case opts.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken})
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	default:
		logger.Warn("YouTube credentials are not configured, comment fetching is disabled")
		return &Source{pages: disabledPager{}, logger: logger}, nil
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := ytapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Source{pages: apiPager{service: service}, logger: logger}, nil
}

// Fetch возвращает до limit последних комментариев к видео, включая
// ответы. Пустые комментарии и комментарии длиннее MaxTextLength
// пропускаются. При limit <= 0 используется MaxBatchSize.
func (s *Source) Fetch(ctx context.Context, reference string, limit int) ([]string, error) {
	videoID, err := ParseVideoID(reference)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = sentiment.MaxBatchSize
	}

	comments := make([]string, 0, limit)
	token := ""
	for {
		resp, err := s.pages.Page(ctx, videoID, token)
		if err != nil {
			return nil, fmt.Errorf("list comment threads for %s: %w", videoID, err)
		}

		for _, thread := range resp.Items {
			for _, text := range threadTexts(thread) {
				text = strings.TrimSpace(text)
				if text == "" || sentiment.TextLength(text) > sentiment.MaxTextLength {
					continue
				}
				comments = append(comments, text)
				if len(comments) == limit {
					return comments, nil
				}
			}
		}

		if resp.NextPageToken == "" || resp.NextPageToken == token {
			break
		}
		token = resp.NextPageToken
	}

	s.logger.Debug("Fetched comments",
		zap.String("video_id", videoID),
		zap.Int("count", len(comments)),
	)
	return comments, nil
}

func threadTexts(thread *ytapi.CommentThread) []string {
	var texts []string
	if thread.Snippet != nil {
		texts = append(texts, commentText(thread.Snippet.TopLevelComment))
	}
	if thread.Replies != nil {
		for _, reply := range thread.Replies.Comments {
			texts = append(texts, commentText(reply))
		}
	}
	return texts
}

func commentText(c *ytapi.Comment) string {
	if c == nil || c.Snippet == nil {
		return ""
	}
	if c.Snippet.TextDisplay != "" {
		return c.Snippet.TextDisplay
	}
	return c.Snippet.TextOriginal
}
