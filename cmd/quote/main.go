package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/internal/obs"
	"github.com/segyhp/booking-engine/internal/service"
)

const dateLayout = "2006-01-02"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outputJSON bool

	root := &cobra.Command{
		Use:          "quote",
		Short:        "Preview installment plans and property availability",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")

	root.AddCommand(scheduleCmd(&outputJSON))
	root.AddCommand(availabilityCmd(&outputJSON))
	return root
}

func scheduleCmd(outputJSON *bool) *cobra.Command {
	var price string
	var years int
	var start string
	var ratio string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the down payment and monthly installments for a price",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid --price %q", price)
			}
			downPaymentRatio, err := decimal.NewFromString(ratio)
			if err != nil {
				return fmt.Errorf("invalid --ratio %q", ratio)
			}
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}

			plan, err := service.NewInstallmentScheduler(downPaymentRatio).ComputeSchedule(total, years, startDate)
			if err != nil {
				return err
			}

			if *outputJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			return writePlan(cmd.OutOrStdout(), plan)
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "Total property price")
	cmd.Flags().IntVar(&years, "years", domain.PlanYearsShort, "Plan length in years (2 or 3)")
	cmd.Flags().StringVar(&start, "start", "today", "Plan start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ratio, "ratio", domain.DefaultDownPaymentRatio.String(), "Down payment ratio")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func availabilityCmd(outputJSON *bool) *cobra.Command {
	var propertyID string
	var from string
	var to string
	var token string
	var baseURL string

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Check whether a date range is free for a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = os.Getenv("BACKEND_BASE_URL")
			}
			if baseURL == "" {
				return fmt.Errorf("--backend or BACKEND_BASE_URL is required")
			}
			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}
			toDate, err := parseDate(to)
			if err != nil {
				return err
			}

			logger := obs.NewLogger("development", "warn", "")
			availability := service.NewAvailabilityService(backend.NewClient(baseURL, 10*time.Second), logger)
			session := domain.NewSession("", "", domain.RoleGuest, token)

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			occupied, err := availability.GetOccupiedDays(ctx, session, propertyID)
			if err != nil {
				return err
			}

			result := domain.CheckAvailabilityResponse{
				PropertyID: propertyID,
				From:       fromDate.Format(dateLayout),
				To:         toDate.Format(dateLayout),
				Available:  availability.IsRangeAvailable(domain.NewSelection(fromDate, toDate), occupied),
			}
			if *outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			status := "available"
			if !result.Available {
				status = "unavailable"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s..%s: %s\n", result.PropertyID, result.From, result.To, status)
			return err
		},
	}

	cmd.Flags().StringVar(&propertyID, "property", "", "Property ID")
	cmd.Flags().StringVar(&from, "from", "", "First night (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&token, "token", os.Getenv("BACKEND_TOKEN"), "Bearer token for the backend")
	cmd.Flags().StringVar(&baseURL, "backend", "", "Backend base URL")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func parseDate(input string) (time.Time, error) {
	if input == "" || input == "today" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse(dateLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", input)
	}
	return parsed, nil
}

func writePlan(w io.Writer, plan *domain.InstallmentPlan) error {
	fmt.Fprintf(w, "Total:        %s\n", plan.TotalPrice.StringFixed(2))
	fmt.Fprintf(w, "Down payment: %s (%s%%)\n", plan.DownPayment.StringFixed(2), plan.DownPaymentRatio.Shift(2).String())
	fmt.Fprintf(w, "Balance:      %s over %d months\n\n", plan.Balance.StringFixed(2), len(plan.Periods))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDUE\tAMOUNT")
	for _, period := range plan.Periods {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", period.Number, period.DueDate.Format(dateLayout), period.AmountDue.StringFixed(2))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
