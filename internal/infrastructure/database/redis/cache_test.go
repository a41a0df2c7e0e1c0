package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
)

type CacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = &Client{
		rdb:    db,
		cfg:    config.RedisConfig{},
		logger: logging.NewNopLogger(),
	}
	s.cache = NewCache(s.client, logging.NewNopLogger(), WithPrefix("test:"))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

type testMeta struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := testMeta{Artist: "Artist 7", Title: "Track Title 12"}
	raw, _ := json.Marshal(val)

	s.mock.ExpectGet("test:meta:USRC17607839").SetVal(string(raw))

	var dest testMeta
	err := s.cache.Get(context.Background(), "meta:USRC17607839", &dest)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:meta:USRC17607839").RedisNil()

	var dest testMeta
	err := s.cache.Get(context.Background(), "meta:USRC17607839", &dest)

	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestGet_NullMarkerIsMiss() {
	s.mock.ExpectGet("test:meta:MISSING").SetVal(nullMarker)

	var dest testMeta
	err := s.cache.Get(context.Background(), "meta:MISSING", &dest)

	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestMGet_MixedHits() {
	val := testMeta{Artist: "Artist 3"}
	raw, _ := json.Marshal(val)

	s.mock.ExpectMGet("test:meta:A", "test:meta:B", "test:meta:C").
		SetVal([]interface{}{string(raw), nil, nullMarker})

	got, err := s.cache.MGet(context.Background(), []string{"meta:A", "meta:B", "meta:C"})

	assert.NoError(s.T(), err)
	assert.Len(s.T(), got, 2, "misses are omitted, null markers map to nil")
	assert.JSONEq(s.T(), string(raw), string(got["meta:A"]))
	payload, present := got["meta:C"]
	assert.True(s.T(), present)
	assert.Nil(s.T(), payload)
}

func (s *CacheTestSuite) TestMGet_Empty() {
	got, err := s.cache.MGet(context.Background(), nil)
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), got)
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:meta:A", "test:meta:B").SetVal(2)

	err := s.cache.Delete(context.Background(), "meta:A", "meta:B")
	assert.NoError(s.T(), err)
}

func (s *CacheTestSuite) TestDelete_NoKeys() {
	assert.NoError(s.T(), s.cache.Delete(context.Background()))
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestJitterTTL(t *testing.T) {
	c := &redisCache{defaultTTL: 0}
	if got := c.jitterTTL(0); got != 0 {
		t.Fatalf("jitterTTL(0) = %v, want 0", got)
	}
	for i := 0; i < 100; i++ {
		got := c.jitterTTL(100)
		if got < 90 || got > 110 {
			t.Fatalf("jitterTTL(100) = %v, outside +/-10%%", got)
		}
	}
}
