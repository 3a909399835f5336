package memory

import (
	"strconv"
	"time"

	"course-notes-be/internal/entity"
	"course-notes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type UserFileCache struct {
	cache *cache.Cache
}

// NewUserFileCache keeps entries for ttl and purges expired ones every 2*ttl.
func NewUserFileCache(ttl time.Duration) contract.UserFileCache {
	return &UserFileCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func key(userFileId int64) string {
	return strconv.FormatInt(userFileId, 10)
}

func (r *UserFileCache) Save(file *entity.UserFile) {
	cp := *file
	r.cache.Set(key(file.Id), &cp, cache.DefaultExpiration)
}

func (r *UserFileCache) Get(userFileId int64) (*entity.UserFile, bool) {
	if x, found := r.cache.Get(key(userFileId)); found {
		cp := *x.(*entity.UserFile)
		return &cp, true
	}
	return nil, false
}

func (r *UserFileCache) Delete(userFileId int64) {
	r.cache.Delete(key(userFileId))
}
