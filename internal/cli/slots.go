package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/unit"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

type slotsOptions struct {
	unitID       string
	instance     string
	date         string
	professional string
	service      string
}

// NewSlotsCommand prints the free slots of a unit for a day, the same list
// the agenda API returns.
func NewSlotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &slotsOptions{}

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List available slots for a unit and day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlots(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.unitID, "unit", "", "unit id")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "messaging instance name (alternative to --unit)")
	cmd.Flags().StringVar(&opts.date, "date", "", "local date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.professional, "professional", "", "barber name filter")
	cmd.Flags().StringVar(&opts.service, "service", "", "only slots long enough for this service")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runSlots(rootOpts *RootOptions, opts *slotsOptions, cmd *cobra.Command) error {
	e, err := setup(rootOpts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	resolver, err := unit.NewResolver(infraRepo.NewUnitGormRepository(e.db), 1)
	if err != nil {
		return err
	}
	u, err := resolver.Resolve(ctx, opts.unitID, opts.instance)
	if err != nil {
		return businessError(err)
	}

	uc := ucAppointment.NewCheckAvailability(
		infraRepo.NewAppointmentGormRepository(e.db),
		domain.GridMode(e.cfg.AvailabilityGrid),
	)
	out, err := uc.Execute(ctx, ucAppointment.CheckAvailabilityInput{
		UnitID:       u.ID,
		Date:         opts.date,
		Professional: opts.professional,
		Service:      opts.service,
	})
	if err != nil {
		return businessError(err)
	}

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s (%s)\n", u.Name, out.Date)
	if out.Message != "" {
		fmt.Fprintln(w, out.Message)
	}
	for _, s := range out.AvailableSlots {
		fmt.Fprintf(w, "%s\t%s\n", s.Time, s.BarberName)
	}
	fmt.Fprintf(w, "%d slot(s)\n", len(out.AvailableSlots))
	return w.Flush()
}

// businessError surfaces the user-facing message of a typed failure.
func businessError(err error) error {
	if msg := httperr.MessageOf(err); msg != "" && httperr.KindOf(err) != httperr.KindInternal {
		return fmt.Errorf("%s", msg)
	}
	return err
}
