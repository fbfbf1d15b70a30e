package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/db"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/logger"
	"blogapi/internal/repository"
	"blogapi/internal/service"
)

// SeedUser is a demo user with the posts it writes.
type SeedUser struct {
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	EmailAddress string     `json:"emailAddress"`
	Password     string     `json:"password"`
	Posts        []SeedPost `json:"posts"`
}

// SeedPost is a demo post and the comments left on it.
type SeedPost struct {
	Title    string        `json:"title"`
	Content  string        `json:"content"`
	Comments []SeedComment `json:"comments"`
}

// SeedComment is a comment written by the seeded user with email By.
type SeedComment struct {
	By      string `json:"by"`
	Comment string `json:"comment"`
}

// services is the subset of the application the seed goes through.
type services struct {
	auth     service.AuthService
	posts    service.PostService
	comments service.CommentService
}

type result struct {
	created, loggedIn, posts, comments int
}

func main() {
	source := flag.String("source", "cmd/seed/data.json", "path or http(s) URL of the seed JSON")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Msg("starting seed")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	users, err := loadSeed(*source)
	if err != nil {
		log.Fatal().Err(err).Str("source", *source).Msg("failed to load seed data")
	}
	log.Info().Int("users", len(users)).Str("source", *source).Msg("seed data loaded")

	hasher, err := auth.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	identities := service.NewIdentityResolver(userRepo)
	svc := services{
		auth:     service.NewAuthService(userRepo, identities, hasher, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)),
		posts:    service.NewPostService(postRepo, identities, nil),
		comments: service.NewCommentService(repository.NewCommentRepository(gormDB), postRepo, identities),
	}

	res, err := seed(context.Background(), svc, users, log)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().
		Int("users_created", res.created).
		Int("users_existing", res.loggedIn).
		Int("posts", res.posts).
		Int("comments", res.comments).
		Msg("seed completed")
}

// loadSeed reads seed users from a file or, for http(s) sources, from a URL.
func loadSeed(source string) ([]SeedUser, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var users []SeedUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seed signs every user up (or logs in when the address is taken), then
// writes their posts and the comments on them.
func seed(ctx context.Context, svc services, users []SeedUser, log zerolog.Logger) (result, error) {
	var res result
	ids := make(map[string]uint, len(users))

	for _, u := range users {
		token, err := svc.auth.Signup(ctx, u.FirstName, u.LastName, u.EmailAddress, u.Password)
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			token, err = svc.auth.Login(ctx, u.EmailAddress, u.Password)
			if err != nil {
				return res, fmt.Errorf("login existing user %s: %w", u.EmailAddress, err)
			}
			res.loggedIn++
		case err != nil:
			return res, fmt.Errorf("signup %s: %w", u.EmailAddress, err)
		default:
			res.created++
		}

		user, err := svc.auth.VerifyToken(ctx, token)
		if err != nil {
			return res, fmt.Errorf("verify token of %s: %w", u.EmailAddress, err)
		}
		ids[u.EmailAddress] = user.UserID
	}

	for _, u := range users {
		for _, p := range u.Posts {
			post, err := svc.posts.CreatePost(ctx, ids[u.EmailAddress], p.Title, p.Content)
			if err != nil {
				return res, fmt.Errorf("create post %q: %w", p.Title, err)
			}
			res.posts++

			for _, c := range p.Comments {
				authorID, ok := ids[c.By]
				if !ok {
					log.Warn().Str("by", c.By).Str("post", p.Title).Msg("skipping comment by unknown user")
					continue
				}
				if _, err := svc.comments.CreateComment(ctx, authorID, post.PostID, c.Comment); err != nil {
					return res, fmt.Errorf("comment on %q: %w", p.Title, err)
				}
				res.comments++
			}
		}
	}
	return res, nil
}
