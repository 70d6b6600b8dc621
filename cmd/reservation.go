package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reservationCmd prints one reservation and its calendar events.
var reservationCmd = &cobra.Command{
	Use:   "reservation [master-id]",
	Short: "View a synchronized reservation",
	Long:  `Shows the reservation grouping a channel master booking and every calendar event attached to it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(true)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := rt.bookingService()
		rt.logger.Debug("Loading reservation", zap.String("master", args[0]))
		res, err := svc.GetReservation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println("\n--- Reservation ---")
		fmt.Printf("ID:             %d\n", res.ID)
		fmt.Printf("Master:         %s\n", deref(res.EffectiveMasterID))
		fmt.Printf("Principal:      %s\n", deref(res.PrincipalBookingID))
		fmt.Printf("Guest:          %s %s\n", deref(res.GuestName), deref(res.GuestSurname))
		fmt.Printf("Email:          %s\n", deref(res.Email))

		lockColor := "\033[32m" // Green
		if res.DataLocked {
			lockColor = "\033[33m" // Yellow
		}
		fmt.Printf("Data locked:    %s%v\033[0m\n", lockColor, res.DataLocked)

		fmt.Println("-------------------")
		for _, ev := range res.Events {
			fmt.Printf("- unit %d  %s -> %s  %s  amount %s\n",
				ev.UnitID, timeOf(ev.StartAt), timeOf(ev.EndAt), ev.ExternalStatus, deref(ev.Amount))
		}
		fmt.Println("-------------------")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(reservationCmd)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func timeOf(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format(time.RFC3339)
}
