// Package remote builds the inventory of objects already published under a
// namespace.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Altinity/site-sync/internal/retry"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/structs"
	"github.com/rs/zerolog/log"
)

// ErrBrokenPagination is returned when a page claims more results but
// carries no continuation token, or hands back a token already used.
var ErrBrokenPagination = errors.New("truncated listing without continuation token")

// StripQuotes removes every double quote from an ETag.
func StripQuotes(etag string) string {
	return strings.ReplaceAll(etag, "\"", "")
}

// List walks every page under prefix and returns the objects that map to a
// site path. Any failed page fails the whole listing.
func List(ctx context.Context, lister storage.Lister, prefix string, retries uint64) ([]structs.RemoteObject, error) {
	listPrefix := storage.ListPrefix(prefix)

	var (
		objects []structs.RemoteObject
		seen    = make(map[string]struct{})
		tokens  = make(map[string]struct{})
		token   string
		pages   int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed to list %s (page %d): %w", listPrefix, pages+1, err)
		}

		var page *storage.Page

		if err := retry.Do(ctx, retries, func(err error, dur time.Duration) {
			log.Warn().
				Err(err).
				Dur("backoff", dur).
				Str("prefix", listPrefix).
				Int("page", pages+1).
				Msg("Listing failed, retrying")
		}, func() error {
			var err error
			page, err = lister.ListPage(ctx, listPrefix, token)
			return err
		}); err != nil {
			return nil, fmt.Errorf("failed to list %s (page %d): %w", listPrefix, pages+1, err)
		}
		pages++

		for _, obj := range page.Objects {
			rel, ok := storage.RelativePath(prefix, obj.Key)
			if !ok {
				continue
			}
			if _, dup := seen[obj.Key]; dup {
				continue
			}
			seen[obj.Key] = struct{}{}

			objects = append(objects, structs.RemoteObject{
				Key:  obj.Key,
				Path: rel,
				ETag: StripQuotes(obj.ETag),
				Size: obj.Size,
			})
		}

		if !page.Truncated {
			break
		}
		if page.NextToken == "" {
			return nil, fmt.Errorf("failed to list %s (page %d): %w", listPrefix, pages, ErrBrokenPagination)
		}
		if _, reused := tokens[page.NextToken]; reused {
			return nil, fmt.Errorf("failed to list %s (page %d): token %q repeated: %w", listPrefix, pages, page.NextToken, ErrBrokenPagination)
		}
		tokens[page.NextToken] = struct{}{}
		token = page.NextToken
	}

	log.Debug().
		Str("prefix", listPrefix).
		Int("pages", pages).
		Int("objects", len(objects)).
		Msg("Listed remote objects")

	return objects, nil
}

// Paths maps each object's site path to its ETag.
func Paths(objects []structs.RemoteObject) map[string]string {
	m := make(map[string]string, len(objects))
	for _, obj := range objects {
		m[obj.Path] = obj.ETag
	}

	return m
}
