package segregate

import (
	"context"
	"net/url"
	"path"
	"strings"

	"claim-verify-be/internal/entity"
	"claim-verify-be/pkg/verify/provider"

	"github.com/google/uuid"
)

// Segregator resolves each post's content into typed work items: one text
// item per post with text, plus one media item when the post links media
// directly. Pure routing, no network calls.
type Segregator struct{}

var _ provider.SegregationProvider = Segregator{}

func New() Segregator {
	return Segregator{}
}

var extensionTypes = map[string]entity.MediaType{
	".jpg":  entity.MediaImage,
	".jpeg": entity.MediaImage,
	".png":  entity.MediaImage,
	".gif":  entity.MediaImage,
	".webp": entity.MediaImage,
	".mp4":  entity.MediaVideo,
	".webm": entity.MediaVideo,
	".mov":  entity.MediaVideo,
	".mkv":  entity.MediaVideo,
	".mp3":  entity.MediaAudio,
	".wav":  entity.MediaAudio,
	".m4a":  entity.MediaAudio,
	".flac": entity.MediaAudio,
	".ogg":  entity.MediaAudio,
}

var platformHosts = map[string]string{
	"reddit.com":    entity.PlatformReddit,
	"redd.it":       entity.PlatformReddit,
	"twitter.com":   entity.PlatformTwitter,
	"x.com":         entity.PlatformTwitter,
	"youtube.com":   entity.PlatformYouTube,
	"youtu.be":      entity.PlatformYouTube,
	"facebook.com":  entity.PlatformFacebook,
	"instagram.com": entity.PlatformInstagram,
	"tiktok.com":    entity.PlatformTikTok,
}

// Segregate emits work items for every post. Items arrive Pending and
// unregistered; the caller owns registration and ordering.
func (Segregator) Segregate(_ context.Context, posts []*entity.Post) ([]*entity.WorkItem, error) {
	var items []*entity.WorkItem
	for _, post := range posts {
		if post.Platform == "" || post.Platform == entity.PlatformOther {
			if detected := DetectPlatform(post.URL); detected != "" {
				post.Platform = detected
			} else if post.Platform == "" {
				post.Platform = entity.PlatformOther
			}
		}
		if text := strings.TrimSpace(post.Title); text != "" {
			items = append(items, &entity.WorkItem{
				Id:        uuid.New(),
				PostId:    post.Id,
				MediaType: entity.MediaText,
				SourceRef: text,
				Status:    entity.StatusPending,
			})
		}
		if mediaType, ok := ResolveMediaType(post.URL); ok {
			items = append(items, &entity.WorkItem{
				Id:        uuid.New(),
				PostId:    post.Id,
				MediaType: mediaType,
				SourceRef: post.URL,
				Status:    entity.StatusPending,
			})
		}
	}
	return items, nil
}

// ResolveMediaType classifies a URL by its file extension.
func ResolveMediaType(rawURL string) (entity.MediaType, bool) {
	if rawURL == "" {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	mediaType, ok := extensionTypes[ext]
	return mediaType, ok
}

// DetectPlatform maps a URL's host to a known platform tag. Unknown or
// unparseable hosts return empty.
func DetectPlatform(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	for suffix, platform := range platformHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return platform
		}
	}
	return ""
}
