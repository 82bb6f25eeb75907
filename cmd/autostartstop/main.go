package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/namelessknight/autostartstop/internal/models"
	"github.com/namelessknight/autostartstop/internal/version"
	"github.com/namelessknight/autostartstop/pkg/aws"
	"github.com/namelessknight/autostartstop/pkg/formatter"
	"github.com/namelessknight/autostartstop/pkg/holiday"
	"github.com/namelessknight/autostartstop/pkg/reconcile"
	"github.com/namelessknight/autostartstop/pkg/schedule"
	"github.com/namelessknight/autostartstop/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Scheduling defaults
const (
	DefaultTagKey    = "autostartstop"
	DefaultStartHour = 8
	DefaultEndHour   = 18
	DefaultUTCOffset = 9
)

var (
	region      string
	tagKey      string
	target      string
	eventPath   string
	startHour   int
	endHour     int
	utcOffset   int
	holidayURL  string
	showVersion bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autostartstop",
		Short: "Start or stop tagged EC2 instances on a time and holiday schedule",
		Long: `autostartstop is a scheduled automation command that starts or stops
EC2 instances opted in via the autostartstop tag, based on the local
hour and the Japanese holiday calendar.`,
		Run: func(cmd *cobra.Command, args []string) {
			// If version flag is set, print version info and exit
			if showVersion {
				info := version.Get()
				fmt.Printf("autostartstop version %s (built: %s, commit: %s, %s)\n",
					info.Version, info.BuildDate, info.GitCommit, info.GoVersion)
				return
			}

			if !utils.IsValidRegion(region) {
				fmt.Printf("Invalid region '%s'\n", region)
				os.Exit(1)
			}

			policy, err := schedule.NewTimePolicy(startHour, endHour, utcOffset)
			if err != nil {
				fmt.Printf("Invalid schedule window: %v\n", err)
				os.Exit(1)
			}

			event, err := resolveEvent()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			if !event.ValidTarget() {
				fmt.Printf("Unknown target '%s' (expected ec2, rds or all)\n", event.Target)
				os.Exit(1)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				fmt.Printf("Error creating logger: %v\n", err)
				os.Exit(1)
			}
			defer logger.Sync()
			log := logger.Sugar()

			// Past this point every failure is logged and the process
			// still exits 0, so the scheduler records a completed
			// invocation rather than a crashed one.
			if err := runInvocation(cmd.Context(), log, event, policy); err != nil {
				log.Errorw("invocation failed", "error", err)
			}
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.Flags().StringVarP(&region, "region", "r", utils.GetDefaultRegion(),
		"AWS region holding the tagged fleet")
	rootCmd.Flags().StringVar(&tagKey, "tag-key", DefaultTagKey,
		"Tag key instances use to opt into scheduling")
	rootCmd.Flags().StringVarP(&target, "target", "t", models.TargetAll,
		"Resource target to reconcile (ec2, rds or all)")
	rootCmd.Flags().StringVarP(&eventPath, "event", "e", "",
		"Path to a scheduler event JSON file (its target field overrides --target)")
	rootCmd.Flags().IntVar(&startHour, "start-hour", DefaultStartHour,
		"Local hour at which the active window opens")
	rootCmd.Flags().IntVar(&endHour, "end-hour", DefaultEndHour,
		"Local hour at which the active window closes")
	rootCmd.Flags().IntVar(&utcOffset, "utc-offset", DefaultUTCOffset,
		"UTC offset in hours the schedule is evaluated in")
	rootCmd.Flags().StringVar(&holidayURL, "holiday-url", holiday.DefaultBaseURL,
		"Base URL of the holiday calendar dataset")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// resolveEvent builds the trigger event from the --event file when given,
// falling back to the --target flag
func resolveEvent() (models.TriggerEvent, error) {
	if eventPath == "" {
		return models.TriggerEvent{Target: target}, nil
	}
	data, err := os.ReadFile(eventPath)
	if err != nil {
		return models.TriggerEvent{}, fmt.Errorf("error reading event file: %w", err)
	}
	return models.ParseTriggerEvent(data)
}

// runInvocation derives the default action for this run and dispatches to
// the targeted resource types
func runInvocation(ctx context.Context, log *zap.SugaredLogger, event models.TriggerEvent, policy schedule.TimePolicy) error {
	now := time.Now()
	local := now.In(policy.Location)

	holidayClient := holiday.NewClient(holidayURL, log)
	holidays, err := holidayClient.FetchHolidays(ctx, local.Year())
	if err != nil {
		// Fail open: the weekend override below still applies
		log.Warnw("holiday fetch failed, continuing without holiday data", "error", err)
	}

	defaultAction := schedule.DeriveDefaultAction(now, policy)
	if schedule.IsRestDay(now, policy, holidays) {
		log.Infow("today is a rest day, only stop commands will be issued",
			"date", local.Format("2006-01-02"))
		defaultAction = schedule.ApplyRestDayOverride(defaultAction, true)
	}
	log.Infow("derived default action",
		"action", defaultAction.String(),
		"target", event.NormalizedTarget(),
		"region", utils.GetRegionDescriptiveName(region))

	switch event.NormalizedTarget() {
	case models.TargetEC2, models.TargetAll:
		return processEC2(ctx, log, defaultAction, policy)
	case models.TargetRDS:
		log.Infow("database instance scheduling is not implemented, nothing to do")
	}
	return nil
}

// processEC2 reconciles the tagged EC2 fleet against the default action
func processEC2(ctx context.Context, log *zap.SugaredLogger, defaultAction schedule.Action, policy schedule.TimePolicy) error {
	scanStartTime := time.Now()

	client, err := aws.NewEC2Client(ctx, region)
	if err != nil {
		return err
	}
	fmt.Printf("Starting EC2 reconcile in %s ...\n", utils.GetRegionDescriptiveName(client.Region()))

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Reconciling EC2 instances in %s ...", client.Region())
	s.Start()

	reconciler := reconcile.NewFleetReconciler(client, log)
	summary := reconciler.Reconcile(ctx, tagKey, defaultAction)

	scanDuration := time.Since(scanStartTime)
	s.FinalMSG = fmt.Sprintf("✓ [%d instances evaluated] EC2 reconcile - Completed in %.2f seconds\n",
		len(summary.Results), scanDuration.Seconds())
	s.Stop()

	formatter.PrintReconcileTable(os.Stdout, summary, scanStartTime, scanDuration)
	formatter.PrintReconcileSummary(os.Stdout, summary, policy, time.Now())
	return nil
}
