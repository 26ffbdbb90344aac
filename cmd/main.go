package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/avoronin/inkpost/internal/appctx"
	"github.com/avoronin/inkpost/internal/config"
	"github.com/avoronin/inkpost/internal/latency"
	"github.com/avoronin/inkpost/internal/logger"
	"github.com/avoronin/inkpost/internal/model"
	"github.com/avoronin/inkpost/internal/password"
	"github.com/avoronin/inkpost/internal/repository/snapshot"
	"github.com/avoronin/inkpost/internal/service"
	"github.com/avoronin/inkpost/internal/storage/file"
	"github.com/avoronin/inkpost/internal/storage/memory"
	"github.com/avoronin/inkpost/internal/storage/postgres"
	"github.com/avoronin/inkpost/internal/storage/s3"
	"github.com/avoronin/inkpost/internal/storage/sqlite"
	"github.com/avoronin/inkpost/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize snapshot store", "error", err)
	}
	defer closeStore()

	scheme := newPasswordScheme(cfg.Auth.PasswordScheme)
	tokens := newTokenManager(cfg.Auth)
	delay := latency.New(cfg.Latency.Scale)

	users := snapshot.NewUsers(store, scheme)
	posts := snapshot.NewPosts(store)
	sessions := snapshot.NewSessions(store)

	authService := service.NewAuth(users, sessions, tokens, scheme, delay, logger)
	postService := service.NewPosts(posts, delay, logger)

	if err := authService.Restore(ctx); err != nil {
		logger.Error("failed to restore session", "error", err)
	}

	logAppVersion()

	sh := &shell{
		auth:  authService,
		posts: postService,
		in:    bufio.NewScanner(os.Stdin),
	}
	sh.run(ctx)

	logger.Info("bye")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func openSnapshotStore(ctx context.Context, cfg *config.Config) (model.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "memory":
		return memory.New(), noop, nil
	case "file":
		store, err := file.New(cfg.Storage.Dir)
		return store, noop, err
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close() }, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close() }, nil
	case "s3":
		client, err := minio.New(cfg.Storage.S3.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.S3.AccessKey, cfg.Storage.S3.SecretKey, ""),
			Secure: cfg.Storage.S3.UseSSL,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create minio client: %w", err)
		}
		store, err := s3.New(ctx, client, cfg.Storage.S3.Bucket)
		return store, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newPasswordScheme(name string) model.PasswordScheme {
	if name == "bcrypt" {
		return password.NewBcrypt()
	}
	return password.NewPlain()
}

func newTokenManager(cfg config.Auth) model.TokenManager {
	if cfg.TokenScheme == "hs256" {
		return token.NewJWT(cfg.Secret)
	}
	return token.NewLegacy(cfg.Secret)
}

// shell is the stand-in view layer: a line-based UI over the two stores.
// It owns what the page layer owned in the original app, including the
// edit/delete ownership check.
type shell struct {
	auth  *service.Auth
	posts *service.Posts
	in    *bufio.Scanner
}

func (s *shell) run(ctx context.Context) {
	fmt.Println(`inkpost shell. Type "help" for commands.`)

	for {
		fmt.Print("> ")
		line, ok := s.readLine(ctx)
		if !ok {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		opCtx := appctx.WithRequestID(ctx)
		if identity, ok := s.auth.Current(); ok {
			opCtx = appctx.WithIdentity(opCtx, identity)
		}

		switch cmd {
		case "help":
			s.help()
		case "register":
			s.register(opCtx)
		case "login":
			s.login(opCtx)
		case "logout":
			s.report(s.auth.Logout(opCtx))
		case "whoami":
			s.whoami()
		case "posts":
			s.list(opCtx)
		case "read":
			s.read(opCtx, args)
		case "new":
			s.create(opCtx)
		case "edit":
			s.edit(opCtx, args)
		case "delete":
			s.delete(opCtx, args)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *shell) help() {
	fmt.Print(`commands:
  register          create an account and sign in
  login             sign in
  logout            sign out
  whoami            show the current identity
  posts             list all posts, newest first
  read <id>         show one post
  new               write a post (requires login)
  edit <id>         edit an own post
  delete <id>       delete an own post
  quit              leave
`)
}

func (s *shell) register(ctx context.Context) {
	email := s.prompt(ctx, "email: ")
	name := s.prompt(ctx, "name: ")
	pass := s.prompt(ctx, "password: ")

	session, err := s.auth.Register(ctx, email, pass, name)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Printf("welcome, %s\n", session.User.Name)
}

func (s *shell) login(ctx context.Context) {
	email := s.prompt(ctx, "email: ")
	pass := s.prompt(ctx, "password: ")

	session, err := s.auth.Login(ctx, email, pass)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Printf("welcome back, %s\n", session.User.Name)
}

func (s *shell) whoami() {
	identity, ok := s.auth.Current()
	if !ok || !s.auth.IsAuthenticated() {
		fmt.Println("not signed in")
		return
	}
	fmt.Printf("%s <%s> (id %d)\n", identity.Name, identity.Email, identity.ID)
}

func (s *shell) list(ctx context.Context) {
	posts, err := s.posts.Fetch(ctx)
	if err != nil {
		s.report(err)
		return
	}

	if len(posts) == 0 {
		fmt.Println("no posts yet")
		return
	}
	for _, p := range posts {
		category := p.Category
		if category == "" {
			category = "-"
		}
		fmt.Printf("#%d  %-40s  [%s]  %s\n", p.ID, p.Title, category, p.CreatedAt.Format("2006-01-02"))
	}
}

func (s *shell) read(ctx context.Context, args []string) {
	id, ok := s.parseID(args)
	if !ok {
		return
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		s.report(err)
		return
	}

	fmt.Printf("#%d %s\n", post.ID, post.Title)
	fmt.Printf("by user %d, created %s, updated %s\n",
		post.UserID,
		post.CreatedAt.Format("2006-01-02 15:04"),
		post.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Println(post.Excerpt)
	fmt.Println()
	fmt.Println(post.Content)
}

func (s *shell) create(ctx context.Context) {
	identity, ok := s.requireAuth()
	if !ok {
		return
	}

	params := model.CreatePostParams{
		UserID:   identity.ID,
		Title:    s.prompt(ctx, "title: "),
		Excerpt:  s.prompt(ctx, "excerpt: "),
		Content:  s.prompt(ctx, "content: "),
		Category: s.prompt(ctx, "category (optional): "),
	}

	post, err := s.posts.Create(ctx, params)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Printf("created post #%d\n", post.ID)
}

func (s *shell) edit(ctx context.Context, args []string) {
	identity, ok := s.requireAuth()
	if !ok {
		return
	}
	id, ok := s.parseID(args)
	if !ok {
		return
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		s.report(err)
		return
	}
	if post.UserID != identity.ID {
		fmt.Println("you can only edit your own posts")
		return
	}

	// Empty input keeps the current value.
	patch := model.PostPatch{}
	if v := s.prompt(ctx, fmt.Sprintf("title [%s]: ", post.Title)); v != "" {
		patch.Title = &v
	}
	if v := s.prompt(ctx, "excerpt (blank = keep): "); v != "" {
		patch.Excerpt = &v
	}
	if v := s.prompt(ctx, "content (blank = keep): "); v != "" {
		patch.Content = &v
	}
	if v := s.prompt(ctx, "category (blank = keep): "); v != "" {
		patch.Category = &v
	}

	updated, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Printf("updated post #%d\n", updated.ID)
}

func (s *shell) delete(ctx context.Context, args []string) {
	identity, ok := s.requireAuth()
	if !ok {
		return
	}
	id, ok := s.parseID(args)
	if !ok {
		return
	}

	if post, err := s.posts.Get(ctx, id); err == nil && post.UserID != identity.ID {
		fmt.Println("you can only delete your own posts")
		return
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		s.report(err)
		return
	}
	fmt.Printf("deleted post #%d\n", id)
}

func (s *shell) requireAuth() (model.Identity, bool) {
	identity, ok := s.auth.Current()
	if !ok || !s.auth.IsAuthenticated() {
		fmt.Println("please login first")
		return model.Identity{}, false
	}
	return identity, true
}

func (s *shell) parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <id>")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("bad post id %q\n", args[0])
		return 0, false
	}
	return id, true
}

func (s *shell) prompt(ctx context.Context, label string) string {
	fmt.Print(label)
	line, _ := s.readLine(ctx)
	return strings.TrimSpace(line)
}

func (s *shell) readLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// report renders an error the way the original app did: one inline
// human-readable message, no retries, no operator logging.
func (s *shell) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrDuplicateUser),
		errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrNotFound):
		fmt.Println(err.Error())
	default:
		fmt.Printf("something went wrong: %v\n", err)
	}
}
