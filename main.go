package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"calendario-store/internal/auth"
	"calendario-store/internal/blob"
	"calendario-store/internal/config"
	"calendario-store/internal/domain"
	"calendario-store/internal/engine"
	"calendario-store/internal/repository"
	"calendario-store/internal/seed"
)

func main() {
	// Define CLI flags
	seedFlag := flag.Bool("seed", false, "Insert the initial dataset if the store is empty")
	forceSeed := flag.Bool("force-seed", false, "Insert the initial dataset even if data exists")
	needsSeed := flag.Bool("needs-seed", false, "Report whether the store is empty")
	list := flag.Bool("list", false, "List all activities ordered by date")
	date := flag.String("date", "", "List activities on a date (YYYY-MM-DD)")
	get := flag.Int64("get", 0, "Show the activity with the given id")
	add := flag.Bool("add", false, "Add an activity (requires -on and -title)")
	update := flag.Int64("update", 0, "Update the activity with the given id")
	on := flag.String("on", "", "Activity date for -add/-update (YYYY-MM-DD)")
	title := flag.String("title", "", "Activity title for -add/-update")
	description := flag.String("description", "", "Activity description for -add/-update")
	del := flag.Int64("delete", 0, "Delete the activity with the given id")
	clear := flag.Bool("clear", false, "Delete all activities")
	login := flag.String("login", "", "Log in as user:password")
	logout := flag.Bool("logout", false, "Clear the current session")
	whoami := flag.Bool("whoami", false, "Show the current session user")
	dump := flag.Bool("dump", false, "Dump the raw activities table")

	flag.Parse()

	// Disable structured logging for CLI
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors
	})))

	cfg := config.Load()

	store, err := blob.Open(blob.Options{Path: cfg.DataDir, InMemory: cfg.InMemory})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open blob store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	persistMode := engine.PersistOptimistic
	if cfg.DurablePersist {
		persistMode = engine.PersistDurable
	}

	eng := engine.New(store, engine.Options{ScratchDir: cfg.ScratchDir, PersistMode: persistMode})
	defer eng.Close()

	if err := eng.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	activities := repository.NewActivityRepository(eng)

	authService, err := auth.NewService(eng, store, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to set up auth: %v\n", err)
		os.Exit(1)
	}

	seeder := seed.NewSeeder(activities)

	switch {
	case *seedFlag:
		if err := seeder.Seed(); err != nil {
			fail(err)
		}
		fmt.Println("Seed finished")
	case *forceSeed:
		seeder.ForceSeed()
		fmt.Println("Force seed finished")
	case *needsSeed:
		needed, err := seeder.NeedsSeed()
		if err != nil {
			fail(err)
		}
		fmt.Printf("Needs seed: %v\n", needed)
	case *list:
		all, err := activities.FindAll()
		if err != nil {
			fail(err)
		}
		printActivities(all)
	case *date != "":
		matched, err := activities.FindByDate(*date)
		if err != nil {
			fail(err)
		}
		printActivities(matched)
	case *get != 0:
		a, err := activities.FindByID(*get)
		if err != nil {
			fail(err)
		}
		if a == nil {
			fmt.Printf("No activity with id %d\n", *get)
			return
		}
		printActivities([]*domain.Activity{a})
	case *add:
		a, err := domain.NewActivity(*on, *title, *description)
		if err != nil {
			fail(err)
		}
		saved, err := activities.Save(a)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created activity %d\n", saved.ID())
	case *update != 0:
		handleUpdate(activities, *update, *on, *title, *description)
	case *del != 0:
		if err := activities.Delete(*del); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Error: No activity with id %d\n", *del)
				os.Exit(1)
			}
			fail(err)
		}
		fmt.Printf("Deleted activity %d\n", *del)
	case *clear:
		if err := activities.DeleteAll(); err != nil {
			fail(err)
		}
		fmt.Println("All activities deleted")
	case *login != "":
		handleLogin(authService, *login)
	case *logout:
		if err := authService.Logout(); err != nil {
			fail(err)
		}
		fmt.Println("Logged out")
	case *whoami:
		user := authService.CurrentUser()
		if user == nil {
			fmt.Println("Not logged in")
			return
		}
		fmt.Printf("%s (%s)\n", user.Username, user.Role)
	case *dump:
		handleDump(activities)
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func handleUpdate(activities *repository.ActivityRepository, id int64, on, title, description string) {
	existing, err := activities.FindByID(id)
	if err != nil {
		fail(err)
	}
	if existing == nil {
		fmt.Fprintf(os.Stderr, "Error: No activity with id %d\n", id)
		os.Exit(1)
	}

	var datePtr, titlePtr, descPtr *string
	if on != "" {
		datePtr = &on
	}
	if title != "" {
		titlePtr = &title
	}
	if description != "" {
		descPtr = &description
	}

	updated, err := existing.Update(datePtr, titlePtr, descPtr)
	if err != nil {
		fail(err)
	}
	if _, err := activities.Save(updated); err != nil {
		fail(err)
	}
	fmt.Printf("Updated activity %d\n", id)
}

func handleLogin(authService *auth.Service, credentials string) {
	username, password, ok := strings.Cut(credentials, ":")
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: -login expects user:password")
		os.Exit(1)
	}

	result := authService.Login(username, password)
	if !result.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Error)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s (%s)\n", result.User.Username, result.User.Role)
}

func handleDump(activities *repository.ActivityRepository) {
	all, err := activities.FindAll()
	if err != nil {
		fail(err)
	}
	if len(all) == 0 {
		fmt.Println("No activities in the database")
		return
	}
	for _, a := range all {
		fmt.Printf("%d\t%s\t%s\t%s\n", a.ID(), a.Date(), a.Title(), a.Description())
	}
}

func printActivities(list []*domain.Activity) {
	if len(list) == 0 {
		fmt.Println("No activities found.")
		return
	}
	for _, a := range list {
		fmt.Printf("[%d] %s  %s\n", a.ID(), a.Date(), a.Title())
		if a.Description() != "" {
			fmt.Printf("    %s\n", a.Description())
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
