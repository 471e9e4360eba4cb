package lists

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/nathaningle/fetch-iplist/internal/config"
	apperrors "github.com/nathaningle/fetch-iplist/internal/errors"
	"github.com/nathaningle/fetch-iplist/internal/hashing"
	"github.com/nathaningle/fetch-iplist/internal/log"
	"github.com/nathaningle/fetch-iplist/internal/utils"
)

// StatusError reports a non-success HTTP response from a source, as opposed
// to a connection-level failure.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %s", e.Status)
}

// Fetch retrieves the raw text body of a single source. Connection failures
// and non-success statuses are distinct causes, but both are fatal fetch
// errors: no retries, no partial results.
func Fetch(ctx context.Context, client *http.Client, source *config.SourceConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return "", apperrors.NewFetchError(fmt.Sprintf("invalid URL for source \"%s\"", source.Name), err)
	}

	log.Infof("Fetching source \"%s\" from URL: %s", source.Name, source.URL)

	resp, err := client.Do(req)
	if err != nil {
		return "", apperrors.NewFetchError(fmt.Sprintf("failed to fetch source \"%s\"", source.Name), err)
	}
	defer utils.CloseOrWarn(resp.Body)

	if resp.StatusCode/100 != 2 {
		return "", apperrors.NewFetchError(fmt.Sprintf("failed to fetch source \"%s\"", source.Name),
			&StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	bodyProxy := hashing.NewMD5ReaderProxy(resp.Body)
	content, err := io.ReadAll(bodyProxy)
	if err != nil {
		return "", apperrors.NewFetchError(fmt.Sprintf("failed to read response for source \"%s\"", source.Name), err)
	}

	if sum, err := bodyProxy.GetChecksum(); err == nil {
		log.Debugf("Source \"%s\": %d bytes, checksum %s", source.Name, len(content), sum)
	}

	return string(content), nil
}

// FetchAll retrieves every source concurrently and returns the bodies in
// source order. The first failure cancels the remaining fetches and aborts
// the whole run: a partial list could silently under-represent the true
// aggregate.
func FetchAll(ctx context.Context, sources []*config.SourceConfig) ([]string, error) {
	client := &http.Client{}
	bodies := make([]string, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			body, err := Fetch(ctx, client, source)
			if err != nil {
				return err
			}
			bodies[i] = body
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}
