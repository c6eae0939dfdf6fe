package content

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

const (
	DefaultUsersPageSize = 20
	MaxUsersPageSize     = 100

	maxBioRunes      = 500
	maxWebsiteRunes  = 200
	maxLocationRunes = 100
)

// ProfileView is a user page: the counters plus the first page of posts.
type ProfileView struct {
	models.Profile
	Posts *feed.Page `json:"posts"`
}

// UserPage is one page of a follower or following list.
type UserPage struct {
	Users    []models.User `json:"users"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
	HasMore  bool          `json:"has_more"`
}

func (s *Service) GetProfile(ctx context.Context, username string, viewerID int) (*ProfileView, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	view := &ProfileView{Profile: models.Profile{User: *user}}
	if view.FollowersCount, err = s.store.FollowersCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.FollowingCount, err = s.store.FollowingCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.PostsCount, err = s.store.PublishedPostsCount(ctx, user.ID); err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != user.ID {
		if view.IsFollowing, err = s.store.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}
	if viewerID == user.ID {
		dark := user.DarkMode
		view.DarkMode = &dark
	}

	view.Posts, err = s.feed.GetFeed(ctx, feed.Query{
		Kind:     feed.Profile,
		Username: user.Username,
		ViewerID: viewerID,
		Page:     1,
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListFollowers pages through the users following username.
func (s *Service) ListFollowers(ctx context.Context, username string, page, pageSize int) (*UserPage, error) {
	return s.listUsers(ctx, username, page, pageSize, true)
}

// ListFollowing pages through the users username follows.
func (s *Service) ListFollowing(ctx context.Context, username string, page, pageSize int) (*UserPage, error) {
	return s.listUsers(ctx, username, page, pageSize, false)
}

func (s *Service) listUsers(ctx context.Context, username string, page, pageSize int, followers bool) (*UserPage, error) {
	if page < 1 {
		return nil, apperror.Validation("page must be 1 or greater")
	}
	if pageSize <= 0 {
		pageSize = DefaultUsersPageSize
	}
	if pageSize > MaxUsersPageSize {
		pageSize = MaxUsersPageSize
	}

	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	var (
		total int64
		users []models.User
	)
	offset := (page - 1) * pageSize
	if followers {
		if total, err = s.store.FollowersCount(ctx, user.ID); err == nil {
			users, err = s.store.Followers(ctx, user.ID, offset, pageSize)
		}
	} else {
		if total, err = s.store.FollowingCount(ctx, user.ID); err == nil {
			users, err = s.store.Following(ctx, user.ID, offset, pageSize)
		}
	}
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	return &UserPage{
		Users:    users,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(page)*int64(pageSize) < total,
	}, nil
}

// ResolveUser finds a user by username.
func (s *Service) ResolveUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's profile.
func (s *Service) UpdateProfile(ctx context.Context, actorID int, req models.UpdateProfileRequest) (*models.User, error) {
	if actorID == 0 {
		return nil, apperror.Unauthorized("login required")
	}

	var user *models.User
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		u, err := tx.UserByID(ctx, actorID)
		if err != nil {
			return notFound(err, "user not found")
		}

		if req.Bio != nil {
			u.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.Website != nil {
			u.Website = strings.TrimSpace(*req.Website)
		}
		if req.Location != nil {
			u.Location = strings.TrimSpace(*req.Location)
		}
		if req.DarkMode != nil {
			u.DarkMode = *req.DarkMode
		}
		if err := validateProfile(u); err != nil {
			return err
		}

		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetDarkMode stores the caller's theme preference.
func (s *Service) SetDarkMode(ctx context.Context, actorID int, on bool) error {
	_, err := s.UpdateProfile(ctx, actorID, models.UpdateProfileRequest{DarkMode: &on})
	return err
}

func validateProfile(u *models.User) error {
	if utf8.RuneCountInString(u.Bio) > maxBioRunes {
		return apperror.Validation("bio is too long")
	}
	if utf8.RuneCountInString(u.Location) > maxLocationRunes {
		return apperror.Validation("location is too long")
	}
	if u.Website == "" {
		return nil
	}
	if utf8.RuneCountInString(u.Website) > maxWebsiteRunes {
		return apperror.Validation("website is too long")
	}
	parsed, err := url.Parse(u.Website)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return apperror.Validation("website must be an http or https URL")
	}
	return nil
}
