package coversrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sukisigm69/LiteraSpace/util/httpx"
)

// DefaultCover is used when the lookup finds nothing.
const DefaultCover = "https://i.pinimg.com/736x/ae/cd/25/aecd250504c8812d912d742dd9156325.jpg"

// Repo resolves a cover image URL for a book title when none was supplied.
type Repo interface {
	Resolve(ctx context.Context, title, author string) string
}

type httpRepo struct {
	baseURL string
	client  *http.Client
}

func NewHTTP(baseURL string) Repo {
	return &httpRepo{baseURL: baseURL, client: httpx.Client()}
}

// Resolve queries the Open Library search API for a cover id. Lookup failures
// fall back to the default cover; book creation never fails on a missing
// image.
func (r *httpRepo) Resolve(ctx context.Context, title, author string) string {
	q := url.Values{}
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return DefaultCover
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return DefaultCover
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return DefaultCover
	}

	var out struct {
		Docs []struct {
			CoverID int64 `json:"cover_i"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return DefaultCover
	}
	if len(out.Docs) == 0 || out.Docs[0].CoverID == 0 {
		return DefaultCover
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", out.Docs[0].CoverID)
}
