package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	TravelKeyPrefix = "travel:%d"
)

const (
	UserTTL   = 5 * time.Minute
	TravelTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TravelKey(travelID uint) string {
	return fmt.Sprintf(TravelKeyPrefix, travelID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateTravel(ctx context.Context, travelID uint) {
	Invalidate(ctx, TravelKey(travelID))
}
