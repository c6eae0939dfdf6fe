// Command seed creates the genre list and, optionally, sample users, posts
// and engagement for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/auth"
	"github.com/emilythestrangee/social-blog/backend/internal/config"
	"github.com/emilythestrangee/social-blog/backend/internal/content"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/logger"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

var genres = []struct{ name, description string }{
	{"Sports", "Sports news, analysis, and personal stories"},
	{"Comedy", "Funny stories, jokes, and humorous content"},
	{"Technology", "Tech news, tutorials, and innovation"},
	{"Politics", "Political analysis and current affairs"},
	{"Lifestyle", "Life tips, habits, and personal development"},
	{"Relationships", "Love, dating, family, and friendships"},
	{"Finance", "Money management, investing, and economics"},
	{"Education", "Learning, teaching, and academic content"},
	{"Health", "Wellness, fitness, and medical information"},
	{"Travel", "Travel guides, experiences, and adventures"},
	{"Entertainment", "Movies, music, books, and pop culture"},
	{"Food", "Recipes, restaurant reviews, and culinary stories"},
	{"Religion", "Faith, spirituality, and religious discussions"},
	{"Personal Stories", "Life experiences and personal narratives"},
	{"Opinion", "Editorial content and personal viewpoints"},
}

var sampleUsers = []string{"alice", "bob", "carol", "dave"}

var samplePosts = []struct{ author, genre, title, content string }{
	{"alice", "technology", "Why We Moved Our Feed to Postgres", "Counting likes on read turned out to be cheaper than keeping counters in sync."},
	{"bob", "travel", "Three Days in Lisbon", "Trams, tiles and far too many pastries."},
	{"carol", "food", "A Weeknight Dal", "Red lentils, cumin, and twenty minutes."},
	{"alice", "education", "Teaching Recursion With Comment Threads", "Every reply is just another comment with a parent."},
	{"dave", "sports", "The Case for Slower Marathons", "Training at conversation pace changed my season."},
	{"bob", "technology", "Retry Loops Done Right", "Bound them, log them, and know which errors deserve another attempt."},
}

func main() {
	sample := flag.Bool("sample", false, "also create sample users, posts, follows, likes and comments")
	tokenFor := flag.String("token", "", "print a bearer token for this username and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.New(cfg.Database, log.Named("database"))
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	st := store.New(db.GetDB(), db.GetSQLX())

	if *tokenFor != "" {
		if err := printToken(ctx, st, cfg.Auth, *tokenFor); err != nil {
			log.Fatal("failed to issue token", zap.Error(err))
		}
		return
	}

	assembler := feed.NewAssembler(st)
	eng := engagement.NewService(st, events.Nop{}, log.Named("engagement"))
	cnt := content.NewService(st, assembler, eng, events.Nop{}, log.Named("content"))

	created := 0
	for _, g := range genres {
		_, isNew, err := cnt.EnsureGenre(ctx, g.name, g.description)
		if err != nil {
			log.Fatal("failed to create genre", zap.String("genre", g.name), zap.Error(err))
		}
		if isNew {
			created++
		}
	}
	log.Info("genres ready", zap.Int("created", created), zap.Int("total", len(genres)))

	if *sample {
		err := seedSample(ctx, st, cnt, eng)
		if errors.Is(err, errSampleExists) {
			log.Info("sample data already present, skipping")
			return
		}
		if err != nil {
			log.Fatal("failed to seed sample data", zap.Error(err))
		}
		log.Info("sample data created")
	}
}

func printToken(ctx context.Context, st *store.Store, cfg config.AuthConfig, username string) error {
	user, err := st.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	token, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL).Generate(user.ID, user.Username)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

var errSampleExists = errors.New("sample data already seeded")

func seedSample(ctx context.Context, st *store.Store, cnt *content.Service, eng *engagement.Service) error {
	taken, err := st.SlugTaken(ctx, slug.Make(samplePosts[0].title))
	if err != nil {
		return err
	}
	if taken {
		return errSampleExists
	}

	users := make(map[string]*models.User, len(sampleUsers))
	for _, name := range sampleUsers {
		u, err := st.UserByUsername(ctx, name)
		if database.IsNotFound(err) {
			u = &models.User{Username: name}
			err = st.CreateUser(ctx, u)
		}
		if err != nil {
			return err
		}
		users[name] = u
	}

	var posts []*models.Post
	for _, p := range samplePosts {
		post, err := cnt.CreatePost(ctx, users[p.author].ID, models.CreatePostRequest{
			Title:     p.title,
			Content:   p.content,
			GenreSlug: p.genre,
		})
		if err != nil {
			return fmt.Errorf("post %q: %w", p.title, err)
		}
		posts = append(posts, post)
	}

	follows := [][2]string{{"alice", "bob"}, {"alice", "carol"}, {"bob", "alice"}, {"dave", "alice"}}
	for _, f := range follows {
		following, err := st.IsFollowing(ctx, users[f[0]].ID, users[f[1]].ID)
		if err != nil {
			return err
		}
		if following {
			continue
		}
		if _, err := eng.ToggleFollow(ctx, users[f[0]].ID, users[f[1]].ID); err != nil {
			return err
		}
	}

	for i, post := range posts {
		for _, name := range sampleUsers[:1+i%len(sampleUsers)] {
			if _, err := eng.TogglePostLike(ctx, users[name].ID, post.ID); err != nil {
				return err
			}
		}

		top, err := eng.AddComment(ctx, post.ID, users["carol"].ID, "Thanks for writing this up.", nil)
		if err != nil {
			return err
		}
		if _, err := eng.AddComment(ctx, post.ID, post.AuthorID, "Glad it helped!", &top.ID); err != nil {
			return err
		}
	}
	return nil
}
