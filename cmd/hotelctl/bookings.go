package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"hotelbook/pkg/client"
	"hotelbook/pkg/model"

	"github.com/spf13/cobra"
)

const (
	envAPIURL   = "HOTELBOOK_URL"
	envAPIToken = "HOTELBOOK_TOKEN"
)

type apiOptions struct {
	url   string
	token string
}

func (o *apiOptions) client() *client.HttpClient {
	url := o.url
	if url == "" {
		url = os.Getenv(envAPIURL)
	}
	if url == "" {
		url = "http://localhost:8080"
	}
	token := o.token
	if token == "" {
		token = os.Getenv(envAPIToken)
	}
	return client.NewHttpClient(url, token)
}

func newBookingsCmd() *cobra.Command {
	opts := &apiOptions{}

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List or create bookings through the HTTP API",
	}
	cmd.PersistentFlags().StringVar(&opts.url, "url", "", "service base URL (defaults to "+envAPIURL+")")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token (defaults to "+envAPIToken+")")

	cmd.AddCommand(newBookingsListCmd(opts))
	cmd.AddCommand(newBookingsCreateCmd(opts))
	return cmd
}

func newBookingsListCmd(opts *apiOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list HOTEL_ID",
		Short: "Show a hotel's bookings ordered by start date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := opts.client().ListBookings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printBookings(cmd.OutOrStdout(), bookings)
		},
	}
}

type createOptions struct {
	guestName      string
	guestEmail     string
	startDate      string
	endDate        string
	idempotencyKey string
}

func newBookingsCreateCmd(opts *apiOptions) *cobra.Command {
	create := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create HOTEL_ID",
		Short: "Book a stay; nights run from --start up to but not including --end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := create.request()
			if err != nil {
				return err
			}
			booking, err := opts.client().CreateBooking(cmd.Context(), args[0], req, create.idempotencyKey)
			if err != nil {
				return err
			}
			return printBookings(cmd.OutOrStdout(), []*model.Booking{booking})
		},
	}

	cmd.Flags().StringVar(&create.guestName, "guest", "", "guest name")
	cmd.Flags().StringVar(&create.guestEmail, "email", "", "guest email")
	cmd.Flags().StringVar(&create.startDate, "start", "", "check-in date, YYYY-MM-DD")
	cmd.Flags().StringVar(&create.endDate, "end", "", "check-out date, YYYY-MM-DD")
	cmd.Flags().StringVar(&create.idempotencyKey, "idempotency-key", "", "replay-safe key for retries")
	for _, name := range []string{"guest", "email", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (o *createOptions) request() (*model.BookingRequest, error) {
	start, err := model.ParseDate(o.startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := model.ParseDate(o.endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --end: %w", err)
	}
	return &model.BookingRequest{
		GuestName:  o.guestName,
		GuestEmail: o.guestEmail,
		StartDate:  &start,
		EndDate:    &end,
	}, nil
}

func printBookings(out io.Writer, bookings []*model.Booking) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGUEST\tEMAIL\tSTART\tEND\tCREATED BY")
	for _, b := range bookings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.GuestName, b.GuestEmail, b.StartDate, b.EndDate, b.CreatedBy)
	}
	return w.Flush()
}
