package booking

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/commands"
)

var arriveDate string

var arriveCmd = &cobra.Command{
	Use:   "arrive [booking-id]",
	Short: "Record the person's arrival",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordArrivalHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		arrival, err := parseDateFlag("--date", arriveDate)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.RecordArrivalHandler.Handle(cmd.Context(), commands.RecordArrivalCommand{
			ActorID:       actorID,
			BookingID:     bookingID,
			ActualArrival: arrival,
		}); err != nil {
			return fmt.Errorf("failed to record arrival: %w", err)
		}

		fmt.Printf("Arrival recorded for booking %s on %s\n", bookingID, arrival)
		return nil
	},
}

var (
	departDate   string
	departReason string
	departMoveOn string
	departNotes  string
)

var departCmd = &cobra.Command{
	Use:   "depart [booking-id]",
	Short: "Record the person's departure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordDepartureHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		departure, err := parseDateFlag("--date", departDate)
		if err != nil {
			return err
		}
		reasonID, err := parseUUIDArg("--reason", departReason)
		if err != nil {
			return err
		}

		var moveOnID *uuid.UUID
		if departMoveOn != "" {
			id, err := parseUUIDArg("--move-on", departMoveOn)
			if err != nil {
				return err
			}
			moveOnID = &id
		}

		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.RecordDepartureHandler.Handle(cmd.Context(), commands.RecordDepartureCommand{
			ActorID:          actorID,
			BookingID:        bookingID,
			ActualDeparture:  departure,
			ReasonID:         reasonID,
			MoveOnCategoryID: moveOnID,
			Notes:            departNotes,
		}); err != nil {
			return fmt.Errorf("failed to record departure: %w", err)
		}

		fmt.Printf("Departure recorded for booking %s on %s\n", bookingID, departure)
		return nil
	},
}

var (
	nonArrivalReason string
	nonArrivalNotes  string
)

var nonArrivalCmd = &cobra.Command{
	Use:   "non-arrival [booking-id]",
	Short: "Record that the person never arrived",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordNonArrivalHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		reasonID, err := parseUUIDArg("--reason", nonArrivalReason)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.RecordNonArrivalHandler.Handle(cmd.Context(), commands.RecordNonArrivalCommand{
			ActorID:   actorID,
			BookingID: bookingID,
			ReasonID:  reasonID,
			Notes:     nonArrivalNotes,
		}); err != nil {
			return fmt.Errorf("failed to record non-arrival: %w", err)
		}

		fmt.Printf("Non-arrival recorded for booking %s\n", bookingID)
		return nil
	},
}

var (
	cancelReason string
	cancelNotes  string
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [booking-id]",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		reasonID, err := parseUUIDArg("--reason", cancelReason)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.CancelBookingHandler.Handle(cmd.Context(), commands.CancelBookingCommand{
			ActorID:   actorID,
			BookingID: bookingID,
			ReasonID:  reasonID,
			Notes:     cancelNotes,
		}); err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		fmt.Printf("Booking cancelled: %s\n", bookingID)
		return nil
	},
}

var shortenDeparture string

var shortenCmd = &cobra.Command{
	Use:   "shorten [booking-id]",
	Short: "Move the booking's departure earlier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ShortenBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		newDeparture, err := parseDateFlag("--departure", shortenDeparture)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.ShortenBookingHandler.Handle(cmd.Context(), commands.ShortenBookingCommand{
			ActorID:      actorID,
			BookingID:    bookingID,
			NewDeparture: newDeparture,
		}); err != nil {
			return fmt.Errorf("failed to shorten booking: %w", err)
		}

		fmt.Printf("Booking %s now departs %s\n", bookingID, newDeparture)
		return nil
	},
}

var keyworkerID string

var keyworkerCmd = &cobra.Command{
	Use:   "keyworker [booking-id]",
	Short: "Allocate a key worker to a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AllocateKeyWorkerHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}
		workerID, err := parseUUIDArg("--staff", keyworkerID)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.AllocateKeyWorkerHandler.Handle(cmd.Context(), commands.AllocateKeyWorkerCommand{
			ActorID:     actorID,
			BookingID:   bookingID,
			KeyWorkerID: workerID,
		}); err != nil {
			return fmt.Errorf("failed to allocate key worker: %w", err)
		}

		fmt.Printf("Key worker %s allocated to booking %s\n", workerID, bookingID)
		return nil
	},
}

func init() {
	arriveCmd.Flags().StringVar(&arriveDate, "date", "", "actual arrival date (YYYY-MM-DD)")
	_ = arriveCmd.MarkFlagRequired("date")

	departCmd.Flags().StringVar(&departDate, "date", "", "actual departure date (YYYY-MM-DD)")
	departCmd.Flags().StringVar(&departReason, "reason", "", "departure reason ID (UUID)")
	departCmd.Flags().StringVar(&departMoveOn, "move-on", "", "move-on category ID (UUID)")
	departCmd.Flags().StringVar(&departNotes, "notes", "", "free-text notes")
	_ = departCmd.MarkFlagRequired("date")
	_ = departCmd.MarkFlagRequired("reason")

	nonArrivalCmd.Flags().StringVar(&nonArrivalReason, "reason", "", "non-arrival reason ID (UUID)")
	nonArrivalCmd.Flags().StringVar(&nonArrivalNotes, "notes", "", "free-text notes")
	_ = nonArrivalCmd.MarkFlagRequired("reason")

	cancelCmd.Flags().StringVar(&cancelReason, "reason", "", "cancellation reason ID (UUID)")
	cancelCmd.Flags().StringVar(&cancelNotes, "notes", "", "free-text notes")
	_ = cancelCmd.MarkFlagRequired("reason")

	shortenCmd.Flags().StringVar(&shortenDeparture, "departure", "", "new departure date (YYYY-MM-DD)")
	_ = shortenCmd.MarkFlagRequired("departure")

	keyworkerCmd.Flags().StringVar(&keyworkerID, "staff", "", "key worker staff ID (UUID)")
	_ = keyworkerCmd.MarkFlagRequired("staff")
}
