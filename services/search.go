package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
)

// DefaultPageSize is the listing and search page size when the caller does
// not supply one.
const DefaultPageSize = 18

// PostPager fetches one page of active posts plus the total match count.
type PostPager interface {
	FindPage(filter database.PostFilter, page, pageSize int) ([]*models.Post, int64, error)
}

// UserFinder resolves a user id, returning nil without error when absent.
type UserFinder interface {
	FindByID(id uint) (*models.User, error)
}

// FavoriteLister returns the post ids a user has favorited.
type FavoriteLister interface {
	PostIDsFavoritedBy(userID uint) ([]uint, error)
}

// TagMatcher resolves the covering-set tag filter.
type TagMatcher interface {
	PostIDsTaggedAll(names []string) ([]uint, error)
}

// SearchResult is a page of matching posts and the unpaginated total.
type SearchResult struct {
	List       []*models.Post `json:"list"`
	TotalCount int64          `json:"totalCount"`
}

// Searcher resolves search expressions against storage. An expression is
// whitespace-tokenized; at most one fp:<userId> and one user:<userId>
// directive are extracted, and every remaining token is a required tag.
type Searcher struct {
	posts     PostPager
	users     UserFinder
	favorites FavoriteLister
	tagged    TagMatcher
	logger    zerolog.Logger
}

func NewSearcher(posts PostPager, users UserFinder, favorites FavoriteLister, tagged TagMatcher) *Searcher {
	return &Searcher{
		posts:     posts,
		users:     users,
		favorites: favorites,
		tagged:    tagged,
		logger:    log.With().Str("serviceName", "searcher").Logger(),
	}
}

var (
	favDirectiveRe   = regexp.MustCompile(`^fp:(\d+)$`)
	ownerDirectiveRe = regexp.MustCompile(`^user:(\d+)$`)
)

// searchQuery is a parsed expression: required tag names plus the optional
// favorited-by and authored-by restrictions.
type searchQuery struct {
	tags      []string
	favUserID *uint
	ownerID   *uint
}

// parseQuery extracts the first occurrence of each directive and keeps every
// other token as a tag. Malformed directives (fp:abc, user:) are not errors;
// they stay literal tags and simply match nothing.
func parseQuery(expr string) searchQuery {
	var q searchQuery
	for _, token := range strings.Fields(expr) {
		if q.favUserID == nil {
			if m := favDirectiveRe.FindStringSubmatch(token); m != nil {
				if id := parseID(m[1]); id != nil {
					q.favUserID = id
					continue
				}
			}
		}
		if q.ownerID == nil {
			if m := ownerDirectiveRe.FindStringSubmatch(token); m != nil {
				if id := parseID(m[1]); id != nil {
					q.ownerID = id
					continue
				}
			}
		}
		q.tags = append(q.tags, token)
	}
	return q
}

func parseID(s string) *uint {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	asUint := uint(id)
	return &asUint
}

// Search returns the active posts matching the expression, newest first, with
// the total match count. An empty or whitespace-only expression degrades to
// the plain chronological listing.
func (s *Searcher) Search(expr string, page, pageSize int) (*SearchResult, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := parseQuery(expr)
	var idSets [][]uint

	if q.favUserID != nil {
		user, err := s.users.FindByID(*q.favUserID)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "user", err)
		}
		if user == nil {
			// Unknown user short-circuits to empty, never an error.
			return &SearchResult{List: []*models.Post{}}, nil
		}
		ids, err := s.favorites.PostIDsFavoritedBy(user.ID)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "favorites", err)
		}
		if len(ids) == 0 {
			return &SearchResult{List: []*models.Post{}}, nil
		}
		idSets = append(idSets, ids)
	}

	if len(q.tags) > 0 {
		ids, err := s.tagged.PostIDsTaggedAll(distinct(q.tags))
		if err != nil {
			return nil, errs.NewDatabaseError("find", "tagged posts", err)
		}
		idSets = append(idSets, ids)
	}

	filter := database.PostFilter{OwnerID: q.ownerID}
	if len(idSets) > 0 {
		// Non-nil even when empty: a resolved-but-empty candidate set must
		// match nothing, not everything.
		filter.IDs = intersect(idSets)
	}

	list, total, err := s.posts.FindPage(filter, page, pageSize)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "posts", err)
	}
	if list == nil {
		list = []*models.Post{}
	}
	return &SearchResult{List: list, TotalCount: total}, nil
}

// List returns the plain chronological active-post listing.
func (s *Searcher) List(page, pageSize int) (*SearchResult, error) {
	return s.Search("", page, pageSize)
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func intersect(sets [][]uint) []uint {
	out := sets[0]
	for _, set := range sets[1:] {
		members := make(map[uint]struct{}, len(set))
		for _, id := range set {
			members[id] = struct{}{}
		}
		var next []uint
		for _, id := range out {
			if _, ok := members[id]; ok {
				next = append(next, id)
			}
		}
		out = next
	}
	if out == nil {
		out = []uint{}
	}
	return out
}
