package moderation

import (
	"context"
	"sync"
	"time"

	"go-resources/internal/enrichment"
	"go-resources/internal/model"
	"go-resources/internal/scraper"
	"go-resources/internal/youtube"
)

type fakeScraper struct {
	mu       sync.Mutex
	calls    int
	page     *scraper.Page
	err      error
	delay    time.Duration
	panicMsg string
}

func (f *fakeScraper) Scrape(ctx context.Context, _ string) (*scraper.Page, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.page, f.err
}

func (f *fakeScraper) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLookup struct {
	mu    sync.Mutex
	calls int
	video *youtube.Video
	err   error
}

func (f *fakeLookup) Video(_ context.Context, id string) (*youtube.Video, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	v := *f.video
	v.ID = id
	return &v, nil
}

type fakeStore struct {
	mu        sync.Mutex
	resources map[uint]model.Resource
	findErr   error
	saveErrs  []error // 按调用顺序返回,用完后返回 nil
	saves     int
}

func newFakeStore(resources ...model.Resource) *fakeStore {
	s := &fakeStore{resources: make(map[uint]model.Resource)}
	for _, r := range resources {
		s.resources[r.ID] = r
	}
	return s
}

func (s *fakeStore) FindResource(_ context.Context, id uint) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	r, ok := s.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return &r, nil
}

func (s *fakeStore) SaveResource(_ context.Context, r *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if len(s.saveErrs) > 0 {
		err := s.saveErrs[0]
		s.saveErrs = s.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	s.resources[r.ID] = *r
	return nil
}

func (s *fakeStore) get(id uint) model.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources[id]
}

type fakeFinder struct {
	img      enrichment.Image
	err      error
	panicMsg string
}

func (f *fakeFinder) Find(context.Context, string, string) (enrichment.Image, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.img, f.err
}
