package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rhyrak/section-scheduler/internal/config"
	"github.com/rhyrak/section-scheduler/internal/csvio"
	"github.com/rhyrak/section-scheduler/internal/export"
	"github.com/rhyrak/section-scheduler/internal/logger"
	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/internal/service"
	"github.com/rhyrak/section-scheduler/internal/store"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Program parameters
var (
	envFile      = ".env"
	subjectsFile = "./res/private/subjects.csv"
	roomsFile    = "./res/private/rooms.csv"
	sectionsFile = ""
	trimester    = "First"
	exportFile   = "schedule.csv"
	pdfFile      = ""
	seed         int64
	persist      bool
	quiet        bool
)

func main() {
	cmdRoot := &cobra.Command{
		Use:           "section-scheduler",
		Short:         "Section timetable generator",
		Long:          "A tool to assign day patterns, time slots and rooms to every subject of every section of a trimester",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmdRoot.PersistentFlags().StringVar(&envFile, "env", envFile, "configuration file (.env style)")

	cmdGen := &cobra.Command{
		Use:   "generate",
		Short: "generate the schedule of a trimester",
		Args:  cobra.NoArgs,
		RunE:  commandGenerate,
	}
	cmdGen.Flags().StringVarP(&subjectsFile, "subjects", "s", subjectsFile, "subject offering table")
	cmdGen.Flags().StringVarP(&roomsFile, "rooms", "r", roomsFile, "room table")
	cmdGen.Flags().StringVar(&sectionsFile, "sections", sectionsFile, "optional section counts per program and year")
	cmdGen.Flags().StringVarP(&trimester, "trimester", "t", trimester, "trimester to schedule")
	cmdGen.Flags().StringVarP(&exportFile, "out", "o", exportFile, "schedule csv output")
	cmdGen.Flags().StringVar(&pdfFile, "pdf", pdfFile, "optional pdf output")
	cmdGen.Flags().Int64Var(&seed, "seed", seed, "random seed, overrides SCHEDULER_SEED")
	cmdGen.Flags().BoolVar(&persist, "persist", persist, "store the run in the database")
	cmdGen.Flags().BoolVarP(&quiet, "quiet", "q", quiet, "do not print the timetable")
	cmdRoot.AddCommand(cmdGen)

	cmdValidate := &cobra.Command{
		Use:   "validate <schedule.csv>",
		Short: "check an exported schedule against the room table",
		Args:  cobra.ExactArgs(1),
		RunE:  commandValidate,
	}
	cmdValidate.Flags().StringVarP(&roomsFile, "rooms", "r", roomsFile, "room table, empty to skip room checks")
	cmdRoot.AddCommand(cmdValidate)

	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func commandGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engineCfg, err := cfg.SchedulerConfiguration()
	if err != nil {
		return err
	}

	subjects, err := csvio.LoadSubjects(subjectsFile, cfg.Delimiter)
	if err != nil {
		return err
	}
	rooms, err := csvio.LoadRooms(roomsFile, cfg.Delimiter)
	if err != nil {
		return err
	}
	var counts []model.SectionCountRecord
	if sectionsFile != "" {
		if counts, err = csvio.LoadSectionCounts(sectionsFile, cfg.Delimiter); err != nil {
			return err
		}
	}

	var runs service.RunStore
	if persist {
		if !cfg.Database.Enabled {
			return fmt.Errorf("--persist needs DB_ENABLED=true")
		}
		db, err := store.NewPostgres(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := store.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		runs = store.NewRunRepository(db)
	}

	svc := service.NewScheduleService(engineCfg, runs, nil, log)
	in := service.GenerateInput{
		Subjects:        subjects,
		Rooms:           rooms,
		SectionCounts:   counts,
		Trimester:       trimester,
		Groups:          cfg.Scheduler.Groups,
		DefaultSections: cfg.Scheduler.DefaultSections,
	}
	if cmd.Flags().Changed("seed") {
		in.Seed = &seed
	}

	fmt.Println("Loading...")
	start := time.Now()
	res, err := svc.Generate(cmd.Context(), in)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := csvio.ExportAssignments(res.Assignments, exportFile); err != nil {
		return err
	}
	if pdfFile != "" {
		if err := writePDF(res.Assignments, pdfFile); err != nil {
			return err
		}
	}

	if !quiet {
		csvio.PrintSchedule(os.Stdout, res.Assignments)
	}
	if res.Valid {
		fmt.Println("Passed all tests")
	} else {
		fmt.Println("Invalid schedule:")
	}
	fmt.Print(res.Run.Report)

	fmt.Printf("Status: %s\n", res.Run.Status)
	fmt.Printf("Buckets: %d (%d failed)\n", res.Run.Buckets, res.Run.FailedBuckets)
	fmt.Printf("Seed: %d\n", res.Run.Seed)
	fmt.Printf("Timer: %f ms\n", float64(elapsed.Nanoseconds())/1000000.0)
	if res.Run.ID != "" {
		fmt.Println("Stored run: " + res.Run.ID)
	}
	fmt.Println("Exported output to: " + exportFile)

	if !res.Valid {
		log.Error("exported schedule is invalid", zap.String("file", exportFile))
		return fmt.Errorf("schedule failed validation")
	}
	return nil
}

func commandValidate(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	assignments, err := csvio.LoadAssignments(args[0], ',')
	if err != nil {
		return err
	}

	var catalog *scheduler.RoomCatalog
	if roomsFile != "" {
		engineCfg, err := cfg.SchedulerConfiguration()
		if err != nil {
			return err
		}
		rooms, err := csvio.LoadRooms(roomsFile, cfg.Delimiter)
		if err != nil {
			return err
		}
		catalog = scheduler.NewRoomCatalog(rooms, engineCfg, scheduler.NewRoomOccupancy())
	}

	valid, msg := scheduler.Validate(assignments, catalog)
	fmt.Print(msg)
	if !valid {
		return fmt.Errorf("%s is not a valid schedule", args[0])
	}
	fmt.Println("Passed all tests")
	return nil
}

func writePDF(assignments []model.Assignment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	title := fmt.Sprintf("%s Trimester Schedule", trimester)
	return export.NewPDFExporter().Render(f, title, export.SectionTables(assignments))
}
