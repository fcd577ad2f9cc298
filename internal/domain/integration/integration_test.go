package integration

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityKind(t *testing.T) {
	assert.Equal(t, []EntityKind{EntityProducts, EntityCustomers, EntityOrders}, AllEntityKinds())
	assert.Equal(t, "Products", EntityProducts.Label())
	assert.False(t, EntityKind("refunds").IsValid())

	k, err := ParseEntityKind(" Orders ")
	require.NoError(t, err)
	assert.Equal(t, EntityOrders, k)

	_, err = ParseEntityKind("refunds")
	assert.ErrorIs(t, err, ErrUnknownEntityKind)
}

func TestStoreCredentials_Validate(t *testing.T) {
	valid := StoreCredentials{TenantID: uuid.New(), StoreDomain: "acme.myshopify.com", AccessToken: "shpat_x"}

	tests := []struct {
		name    string
		mutate  func(c *StoreCredentials)
		wantErr bool
	}{
		{"valid", func(c *StoreCredentials) {}, false},
		{"missing tenant", func(c *StoreCredentials) { c.TenantID = uuid.Nil }, true},
		{"missing domain", func(c *StoreCredentials) { c.StoreDomain = " " }, true},
		{"missing token", func(c *StoreCredentials) { c.AccessToken = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// fakePages serves pages of three items; cursor "" is page 0.
func fakePages(total int, calls *int) PageFetcher[int] {
	return func(ctx context.Context, cursor string) (Page[int], error) {
		*calls++
		n := 0
		if cursor != "" {
			n, _ = strconv.Atoi(cursor)
		}
		page := Page[int]{Items: []int{n*3 + 1, n*3 + 2, n*3 + 3}}
		if n+1 < total {
			page.NextCursor = strconv.Itoa(n + 1)
		}
		return page, nil
	}
}

func TestPaginate_ConsumesUntilExhausted(t *testing.T) {
	calls := 0
	var items []int
	for page, err := range Paginate(context.Background(), "", fakePages(3, &calls)) {
		require.NoError(t, err)
		items = append(items, page.Items...)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, items)
	assert.Equal(t, 3, calls)
}

func TestPaginate_IsLazyAndRestartable(t *testing.T) {
	calls := 0
	seq := Paginate(context.Background(), "1", fakePages(3, &calls))
	assert.Equal(t, 0, calls)

	for range 2 {
		var first []int
		for page, err := range seq {
			require.NoError(t, err)
			first = page.Items
			break
		}
		assert.Equal(t, []int{4, 5, 6}, first)
	}
	assert.Equal(t, 2, calls)
}

func TestPaginate_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		calls++
		if cursor == "" {
			return Page[int]{Items: []int{1}, NextCursor: "next"}, nil
		}
		return Page[int]{}, boom
	}

	var errs []error
	pages := 0
	for _, err := range Paginate(context.Background(), "", fetch) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pages++
	}
	assert.Equal(t, 1, pages)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, 2, calls)
}

func TestPaginate_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	for _, err := range Paginate(ctx, "", fakePages(3, &calls)) {
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 0, calls)
}

func TestPaginate_RepeatedCursorTerminates(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		calls++
		return Page[int]{Items: []int{1}, NextCursor: "same"}, nil
	}
	for range Paginate(context.Background(), "", fetch) {
	}
	assert.Equal(t, 2, calls)
}

func TestIngestResult_Lifecycle(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("complete", func(t *testing.T) {
		r := NewIngestResult(uuid.New(), EntityProducts, start)
		r.Saved = 3
		r.Complete(start.Add(2 * time.Second))
		assert.True(t, r.Succeeded())
		assert.Equal(t, 2*time.Second, r.Duration())
	})

	t.Run("fail before any write", func(t *testing.T) {
		r := NewIngestResult(uuid.New(), EntityOrders, start)
		r.Fail(ErrPlatformUnavailable, start.Add(time.Second))
		assert.Equal(t, IngestStatusFailed, r.Status)
		assert.Contains(t, r.Error, "unavailable")
	})

	t.Run("fail after writes", func(t *testing.T) {
		r := NewIngestResult(uuid.New(), EntityOrders, start)
		r.Saved = 1
		r.Fail(ErrPlatformRequestFailed, start.Add(time.Second))
		assert.Equal(t, IngestStatusPartial, r.Status)
	})

	t.Run("skip", func(t *testing.T) {
		r := NewIngestResult(uuid.New(), EntityCustomers, start)
		r.Skip(start)
		assert.Equal(t, IngestStatusSkipped, r.Status)
		assert.False(t, r.Succeeded())
	})
}
