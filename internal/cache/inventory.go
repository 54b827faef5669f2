package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix    = "post:%d"
	NewsKeyPrefix    = "news:%s:%s:%s"
	WeatherKeyPrefix = "weather:%s:%s"
)

const (
	PostTTL    = 30 * time.Minute
	NewsTTL    = 10 * time.Minute
	WeatherTTL = 15 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// NewsKey keys a syndicated-news response by its query triple.
func NewsKey(country, category, query string) string {
	return fmt.Sprintf(NewsKeyPrefix, country, category, query)
}

func WeatherKey(lat, lon string) string {
	return fmt.Sprintf(WeatherKeyPrefix, lat, lon)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
