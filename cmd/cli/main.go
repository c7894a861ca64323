package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"moviehub/internal/catalog"
	"moviehub/internal/logging"
	"moviehub/internal/movie"
	"moviehub/internal/notification"
	"moviehub/internal/platform/backend"
	"moviehub/internal/platform/rest"
	"moviehub/internal/platform/tmdb"
	"moviehub/internal/session"
	"moviehub/internal/store"
	"moviehub/internal/watchlist"
)

const usage = `Usage: moviehub <command> [args]

Catalog:
  trending                 most popular movies right now
  top-rated                highest rated movies
  now-playing              movies currently in theaters
  upcoming                 upcoming movies (several pages merged)
  coming-soon              upcoming movies not yet released
  search <query>           search movies by title
  discover [flags]         filter by -genre, -year, -sort, -page
  movie <id>               full details for one movie
  videos <id>              trailers and clips for one movie
  similar <id>             movies similar to one movie
  genres                   list known genres

Watchlist:
  watchlist list           show saved movies, most recent first
  watchlist add <id>       save a movie
  watchlist remove <id>    drop a movie
  watchlist clear          drop everything

Notifications:
  notifications list       show the feed
  notifications read-all   mark everything read
  notifications clear      empty the feed

Account:
  login <email> <password>
  register -username u -email e -password p -confirm p -prefs a,b
  logout
  whoami`

type app struct {
	catalog       *catalog.Service
	session       *session.Store
	watchlist     *watchlist.Store
	notifications *notification.Store
}

func main() {
	_ = godotenv.Load(".env.local")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	apiKey := mustGetEnv("TMDB_API_KEY")
	baseURL := getEnv("TMDB_BASE_URL", tmdb.DefaultBaseURL)
	language := getEnv("TMDB_LANGUAGE", "en-US")
	backendURL := getEnv("BACKEND_BASE_URL", "http://localhost:5000")
	dataDir := getEnv("MOVIEHUB_DATA_DIR", defaultDataDir())

	logger := logging.NewConsole(getEnv("LOG_LEVEL", "warn"))

	kv, err := store.Open(dataDir)
	if err != nil {
		log.Fatalf("cannot open data directory %s: %v", dataDir, err)
	}
	defer kv.Close()

	metadata := tmdb.NewClient(tmdb.Config{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Language: language,
		HTTP:     rest.Config{},
	})
	auth := backend.NewClient(backend.Config{
		BaseURL: backendURL,
		HTTP:    rest.Config{},
	})

	a := &app{
		catalog:       catalog.NewService(metadata, logger),
		session:       session.NewStore(auth, kv, logger),
		watchlist:     watchlist.NewStore(kv, logger),
		notifications: notification.NewStore(kv, logger),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "trending":
		printMovies(a.catalog.Trending(ctx))
	case "top-rated":
		printMovies(a.catalog.TopRated(ctx))
	case "now-playing":
		printMovies(a.catalog.NowPlaying(ctx))
	case "upcoming":
		printMovies(a.catalog.Upcoming(ctx))
	case "coming-soon":
		printMovies(a.catalog.ComingSoon(ctx))
	case "search":
		if len(args) == 0 {
			return fmt.Errorf("search needs a query")
		}
		printMovies(a.catalog.Search(ctx, strings.Join(args, " ")))
	case "discover":
		return a.discover(ctx, args)
	case "movie":
		id, err := movieID(args)
		if err != nil {
			return err
		}
		return a.details(ctx, id)
	case "videos":
		id, err := movieID(args)
		if err != nil {
			return err
		}
		for _, v := range a.catalog.Videos(ctx, id) {
			fmt.Printf("%-8s %-40s %s\n", v.Type, v.Name, tmdb.YouTubeURL(v.Key))
		}
	case "similar":
		id, err := movieID(args)
		if err != nil {
			return err
		}
		printMovies(a.catalog.Similar(ctx, id))
	case "genres":
		for _, g := range a.catalog.Genres(ctx) {
			fmt.Printf("%6d  %s\n", g.ID, g.Name)
		}
	case "watchlist":
		return a.runWatchlist(ctx, args)
	case "notifications":
		return a.runNotifications(args)
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <email> <password>")
		}
		user, err := a.session.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s <%s>\n", user.Username, user.Email)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("logged out")
	case "whoami":
		user := a.session.CurrentUser()
		if user == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		if len(user.Preferences) > 0 {
			fmt.Println("preferences:", strings.Join(user.Preferences, ", "))
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func (a *app) discover(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	genre := fs.Int("genre", 0, "genre id (see `moviehub genres`)")
	year := fs.Int("year", 0, "release year")
	sortBy := fs.String("sort", "", "sort key, e.g. popularity.desc, vote_average.desc")
	page := fs.Int("page", 0, "result page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	printMovies(a.catalog.Discover(ctx, movie.DiscoverQuery{
		GenreID: *genre,
		Year:    *year,
		SortBy:  *sortBy,
		Page:    *page,
	}))
	return nil
}

func (a *app) details(ctx context.Context, id int) error {
	d := a.catalog.Details(ctx, id)
	if d.ID == 0 {
		return fmt.Errorf("movie %d not found", id)
	}
	fmt.Printf("%s (%s)\n", d.Title, d.ReleaseDate)
	if d.Tagline != "" {
		fmt.Printf("%q\n", d.Tagline)
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	fmt.Printf("%s | %s | %.1f/10 (%d votes)\n",
		movie.FormatRuntime(d.Runtime), strings.Join(names, ", "), d.VoteAverage, d.VoteCount)
	if d.Overview != "" {
		fmt.Println()
		fmt.Println(d.Overview)
	}
	if d.PosterPath != "" {
		fmt.Println()
		fmt.Println("Poster:", tmdb.PosterURL(d.PosterPath, tmdb.PosterOriginal))
	}
	if len(d.Credits.Cast) > 0 {
		fmt.Println()
		fmt.Println("Cast:")
		for i, c := range d.Credits.Cast {
			if i == 8 {
				break
			}
			fmt.Printf("  %-24s %s\n", c.Name, c.Character)
		}
	}
	if len(d.Reviews.Results) > 0 {
		fmt.Printf("\n%d review(s), latest by %s\n", d.Reviews.TotalResults, d.Reviews.Results[0].Author)
	}
	return nil
}

func (a *app) runWatchlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		for _, e := range a.watchlist.List() {
			fmt.Printf("%8d  %-40s added %s\n", e.ID, e.Title, e.AddedAt.Format("2006-01-02"))
		}
	case "add":
		id, err := movieID(args[1:])
		if err != nil {
			return err
		}
		d := a.catalog.Details(ctx, id)
		if d.ID == 0 {
			return fmt.Errorf("movie %d not found", id)
		}
		a.watchlist.Add(d.Movie)
		fmt.Printf("added %q\n", d.Title)
	case "remove":
		id, err := movieID(args[1:])
		if err != nil {
			return err
		}
		a.watchlist.Remove(id)
	case "clear":
		a.watchlist.Clear()
	default:
		return fmt.Errorf("unknown watchlist command %q", args[0])
	}
	return nil
}

func (a *app) runNotifications(args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		for _, n := range a.notifications.List() {
			marker := " "
			if !n.Read {
				marker = "*"
			}
			fmt.Printf("%s [%-14s] %-24s %s (%s)\n", marker, n.Type, n.Title, n.Message, n.Time)
		}
		if unread := a.notifications.UnreadCount(); unread > 0 {
			fmt.Printf("%d unread\n", unread)
		}
	case "read-all":
		a.notifications.MarkAllRead()
	case "clear":
		a.notifications.ClearAll()
	default:
		return fmt.Errorf("unknown notifications command %q", args[0])
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	prefs := fs.String("prefs", "", "comma-separated genre preferences (at least two)")
	image := fs.String("image", "", "optional profile image file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := session.RegisterInput{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
	}
	if *prefs != "" {
		for _, p := range strings.Split(*prefs, ",") {
			if p = strings.TrimSpace(p); p != "" {
				in.Preferences = append(in.Preferences, p)
			}
		}
	}
	if *image != "" {
		data, err := os.ReadFile(*image)
		if err != nil {
			return fmt.Errorf("read profile image: %w", err)
		}
		in.ProfileImage = data
		in.ProfileImageName = filepath.Base(*image)
	}

	user, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

func printMovies(movies []movie.Movie) {
	for _, m := range movies {
		year := m.ReleaseDate
		if len(year) >= 4 {
			year = year[:4]
		}
		fmt.Printf("%8d  %-44s %-6s %.1f\n", m.ID, m.Title, year, m.VoteAverage)
	}
}

func movieID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing movie id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid movie id %q", args[0])
	}
	return id, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".moviehub"
	}
	return filepath.Join(home, ".moviehub")
}
