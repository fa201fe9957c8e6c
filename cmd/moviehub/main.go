package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"moviehub/internal/catalog"
	"moviehub/internal/fixture"
	"moviehub/internal/gateway"
	"moviehub/internal/ledger"
	"moviehub/internal/query"
	"moviehub/internal/session"
	"moviehub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

func main() {
	global := flag.NewFlagSet("moviehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	offline := global.Bool("offline", false, "use the bundled catalog instead of the API")
	fixturePath := global.String("fixture", fixture.DefaultPath, "catalog CSV for offline mode")
	sessionPath := global.String("session", session.DefaultPath(), "session file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	sessions := session.NewStore(*sessionPath)

	gw, err := buildGateway(*offline, *baseURL, *fixturePath)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	cmd := args[0]
	sub := ""
	rest := []string{}
	if len(args) > 1 {
		sub = args[1]
	}
	if len(args) > 2 {
		rest = args[2:]
	}

	switch cmd {
	case "auth":
		handleAuth(ctx, gw, sessions, sub, rest)
	case "movies":
		handleMovies(ctx, gw, sessions, sub, rest)
	case "rate":
		handleRate(ctx, gw, sessions, args[1:])
	case "review":
		handleReview(ctx, gw, sessions, args[1:])
	case "recommend":
		handleRecommend(ctx, gw, sessions, args[1:])
	case "prefs":
		handlePrefs(ctx, gw, sessions, sub, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func buildGateway(offline bool, baseURL, fixturePath string) (*gateway.Gateway, error) {
	store := catalog.NewStore()
	led := ledger.NewMemory()

	if offline {
		raws, err := fixture.Load(fixturePath)
		if err != nil {
			return nil, fmt.Errorf("load offline catalog: %w", err)
		}
		return gateway.New(gateway.NewLocalBackend(raws, store), store, led), nil
	}
	return gateway.New(gateway.NewHTTPBackend(baseURL), store, led), nil
}

func handleAuth(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		sess, err := gw.Login(ctx, *username, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := sessions.Save(sess); err != nil {
			log.Fatalf("save session: %v", err)
		}
		fmt.Printf("logged in as %s\n", *username)
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		if err := gw.Register(ctx, *username, *password); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		fmt.Println("registered; run `moviehub auth login` to sign in")
	case "logout":
		if err := sessions.Clear(); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")
	case "whoami":
		sess, err := sessions.Load()
		if err != nil {
			log.Fatalf("load session: %v", err)
		}
		if sess == nil {
			fmt.Println("not logged in")
			return
		}
		fmt.Printf("%s (%s)\n", displayName(sess), sess.Role)
	default:
		fmt.Println("usage: moviehub auth <login|register|logout|whoami>")
		os.Exit(1)
	}
}

func handleMovies(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, sub string, args []string) {
	sess, _ := sessions.Load()

	if err := gw.LoadCatalog(ctx, sess); err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	eng := query.New(gw.Store(), gw.Ledger())

	switch sub {
	case "list", "":
		fs := flag.NewFlagSet("movies list", flag.ExitOnError)
		q := fs.String("q", "", "search keyword")
		genre := fs.String("genre", "", "filter by genre")
		sort := fs.String("sort", "", "sort key: title, rating, year")
		_ = fs.Parse(args)

		movies := eng.Apply(ctx, *q, *genre, query.SortKey(*sort))
		printMovies(movies)
	case "get":
		fs := flag.NewFlagSet("movies get", flag.ExitOnError)
		id := fs.String("id", "", "movie id")
		_ = fs.Parse(args)
		if *id == "" && fs.NArg() > 0 {
			*id = fs.Arg(0)
		}
		if *id == "" {
			log.Fatal("movie id is required")
		}

		m, err := gw.GetMovie(*id)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				log.Fatalf("movie %s not found", *id)
			}
			log.Fatalf("get movie: %v", err)
		}
		printMovieDetail(ctx, gw, m)
	case "top":
		fs := flag.NewFlagSet("movies top", flag.ExitOnError)
		limit := fs.Int("limit", query.DefaultLimit, "max results")
		_ = fs.Parse(args)
		printMovies(eng.TopRated(ctx, *limit))
	case "latest":
		fs := flag.NewFlagSet("movies latest", flag.ExitOnError)
		limit := fs.Int("limit", query.DefaultLimit, "max results")
		_ = fs.Parse(args)
		printMovies(eng.Latest(ctx, *limit))
	default:
		fmt.Println("usage: moviehub movies <list|get|top|latest>")
		os.Exit(1)
	}
}

func handleRate(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, args []string) {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	id := fs.String("id", "", "movie id")
	value := fs.Int("rating", 0, "rating 1-5")
	_ = fs.Parse(args)

	if *id == "" || *value == 0 {
		log.Fatal("movie id and rating are required")
	}

	sess := mustSession(sessions)
	if err := gw.LoadCatalog(ctx, sess); err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	if err := gw.SubmitRating(ctx, sess, *id, *value); err != nil {
		log.Fatalf("rate failed: %v", err)
	}

	avg, _ := gw.Ledger().AverageRating(ctx, *id, 0)
	fmt.Printf("rated %s: %d/5 (average now %.1f)\n", *id, *value, avg)
}

func handleReview(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, args []string) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	id := fs.String("id", "", "movie id")
	value := fs.Int("rating", 0, "rating 1-5")
	text := fs.String("text", "", "review text (min 10 characters)")
	_ = fs.Parse(args)

	if *id == "" || *value == 0 || *text == "" {
		log.Fatal("movie id, rating and text are required")
	}

	sess := mustSession(sessions)
	if err := gw.LoadCatalog(ctx, sess); err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	review, err := gw.SubmitReview(ctx, sess, *id, *text, *value)
	if err != nil {
		log.Fatalf("review failed: %v", err)
	}
	fmt.Printf("review %s added for %s\n", review.ID, *id)
}

func handleRecommend(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, args []string) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	limit := fs.Int("limit", 0, "max results")
	_ = fs.Parse(args)

	sess := mustSession(sessions)
	if err := gw.LoadCatalog(ctx, sess); err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	movies, err := gw.Recommendations(ctx, sess, *limit)
	if err != nil {
		log.Fatalf("recommend failed: %v", err)
	}
	if len(movies) == 0 {
		fmt.Println("no recommendations")
		return
	}
	printMovies(movies)
}

func handlePrefs(ctx context.Context, gw *gateway.Gateway, sessions *session.Store, sub string, args []string) {
	switch sub {
	case "set":
		if len(args) == 0 {
			log.Fatal("usage: moviehub prefs set <genre>[,<genre>...]")
		}
		prefs := models.SplitList(strings.Join(args, ","))

		// push to the backend first so online recommendations pick the
		// preferences up, then mirror them into the session file
		current := mustSession(sessions)
		if err := gw.UpdatePreferences(ctx, current, prefs); err != nil {
			log.Fatalf("update preferences: %v", err)
		}
		sess, err := sessions.UpdatePreferences(prefs)
		if err != nil {
			log.Fatalf("save preferences: %v", err)
		}
		fmt.Printf("preferences: %s\n", strings.Join(sess.Preferences, ", "))
	case "show", "":
		sess, err := sessions.Load()
		if err != nil || sess == nil {
			log.Fatal("not logged in")
		}
		if len(sess.Preferences) == 0 {
			fmt.Println("no preferences set")
			return
		}
		fmt.Println(strings.Join(sess.Preferences, ", "))
	default:
		fmt.Println("usage: moviehub prefs <set|show>")
		os.Exit(1)
	}
}

func mustSession(sessions *session.Store) *models.Session {
	sess, err := sessions.Load()
	if err != nil {
		log.Fatalf("load session: %v", err)
	}
	if sess == nil || !sess.Authenticated() {
		log.Fatal("login required: run `moviehub auth login`")
	}
	return sess
}

func printMovies(movies []models.Movie) {
	if len(movies) == 0 {
		fmt.Println("no movies")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEAR\tRATING\tGENRE")
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
			m.ID, m.Title, yearString(m.Year), m.Rating, strings.Join(m.Genre, ", "))
	}
	w.Flush()
}

func printMovieDetail(ctx context.Context, gw *gateway.Gateway, m models.Movie) {
	fmt.Printf("%s (%s)\n", m.Title, yearString(m.Year))
	if m.Director != "" {
		fmt.Printf("directed by %s\n", m.Director)
	}
	if len(m.Genre) > 0 {
		fmt.Printf("genre: %s\n", strings.Join(m.Genre, ", "))
	}
	avg, _ := gw.Ledger().AverageRating(ctx, m.ID, m.Rating)
	fmt.Printf("rating: %.1f\n", avg)
	if m.Duration != "" {
		fmt.Printf("duration: %s\n", m.Duration)
	}
	if len(m.Cast) > 0 {
		fmt.Printf("cast: %s\n", strings.Join(m.Cast, ", "))
	}
	if m.Description != "" {
		fmt.Printf("\n%s\n", m.Description)
	}

	reviews, _ := gw.Ledger().ReviewsFor(ctx, m.ID)
	if len(reviews) > 0 {
		fmt.Printf("\nreviews (%d):\n", len(reviews))
		for _, r := range reviews {
			fmt.Printf("  %s [%d/5] %s\n", r.UserName, r.Rating, r.Text)
		}
	}
}

func displayName(sess *models.Session) string {
	if sess.Name != "" {
		return sess.Name
	}
	if sess.Email != "" {
		return sess.Email
	}
	return sess.ID
}

func yearString(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

func printUsage() {
	fmt.Println(`moviehub - movie discovery CLI

usage:
  moviehub [-api URL] [-offline] <command>

commands:
  auth login -username U -password P    sign in and store the session
  auth register -username U -password P create an account
  auth logout                           clear the stored session
  auth whoami                           show the active session
  movies list [-q Q] [-genre G] [-sort title|rating|year]
  movies get -id ID                     show one movie with reviews
  movies top [-limit N]                 highest rated first
  movies latest [-limit N]              newest first
  rate -id ID -rating 1..5              rate a movie
  review -id ID -rating 1..5 -text T    review a movie
  recommend [-limit N]                  picks based on your preferences
  prefs set <genre>[,<genre>...]        save preferred genres
  prefs show                            print preferred genres`)
}
