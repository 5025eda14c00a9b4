package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civicdesk/civicdesk/internal/api"
	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/tui"
	"github.com/civicdesk/civicdesk/internal/ux"
)

// complaintCmd groups the complaint subcommands
var complaintCmd = &cobra.Command{
	Use:   "complaint",
	Short: "File and track municipal complaints",
	Long: `File and track complaints with the municipal backend.

All complaint commands require a logged-in session; use 'civicdesk auth login'
first.`,
}

// complaintListCmd lists the caller's complaints
var complaintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your complaints",
	Long: `List complaints filed by the logged-in citizen.

By default a single page of results is fetched. Use --page to fetch a later
page, or --all to walk every page. --status narrows the listing to one
status.

Examples:
  civicdesk complaint list
  civicdesk complaint list --status PENDING
  civicdesk complaint list --all
  civicdesk complaint list --page 2 --size 25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		all, _ := cmd.Flags().GetBool("all")

		filter := api.ComplaintStatus(status)
		if status != "" && !filter.Valid() {
			return errors.New(errors.ErrCodeAPIRequest, fmt.Sprintf("unknown status: %s", status)).
				WithSuggestion("Use one of: PENDING, IN_PROGRESS, RESOLVED, REJECTED")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := requireLogin(app); err != nil {
			return err
		}

		if all {
			complaints, err := app.client.NewPager(filter, size).All(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(ux.ComplaintList(complaints))
			return nil
		}

		result, err := app.client.ListMine(cmd.Context(), filter, page, size)
		if err != nil {
			return err
		}

		fmt.Print(ux.ComplaintList(result.Content))
		if !result.Last {
			fmt.Printf("More results available; use --page %d or --all\n", page+1)
		}
		return nil
	},
}

// complaintShowCmd shows one complaint
var complaintShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a complaint in detail",
	Long: `Show a single complaint with its full description, location, and
attachment listing.

Examples:
  civicdesk complaint show 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid complaint id: %s", args[0])
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := requireLogin(app); err != nil {
			return err
		}

		complaint, err := app.client.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Print(ux.ComplaintDetail(complaint))
		return nil
	},
}

// complaintCreateCmd files a new complaint
var complaintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a new complaint",
	Long: `File a new complaint with the municipal backend.

When --title, --description, or --type is missing, an interactive form asks
for the complaint details. Up to three images can be attached with repeated
--image flags; duplicate images are rejected before upload.

Examples:
  civicdesk complaint create --title "Pothole on MG Road" --description "Deep pothole near the bus stop" --type ROAD_DAMAGE --location "MG Road, near stop 12"
  civicdesk complaint create --title "Streetlight out" --description "Dark stretch at night" --type STREET_LIGHT --image light1.jpg --image light2.jpg
  civicdesk complaint create`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := api.ComplaintDraft{}
		draft.Title, _ = cmd.Flags().GetString("title")
		draft.Description, _ = cmd.Flags().GetString("description")
		typeName, _ := cmd.Flags().GetString("type")
		draft.ComplaintType = api.ComplaintType(typeName)
		draft.LocationText, _ = cmd.Flags().GetString("location")
		draft.Latitude, _ = cmd.Flags().GetFloat64("lat")
		draft.Longitude, _ = cmd.Flags().GetFloat64("lon")
		imagePaths, _ := cmd.Flags().GetStringArray("image")

		if draft.Title == "" || draft.Description == "" || typeName == "" {
			if err := tui.ComplaintForm(&draft); err != nil {
				return err
			}
		}

		images := make([]api.Image, 0, len(imagePaths))
		for _, path := range imagePaths {
			img, err := api.LoadImage(path)
			if err != nil {
				return err
			}
			images = append(images, img)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := requireLogin(app); err != nil {
			return err
		}

		complaint, err := app.client.Create(cmd.Context(), draft, images)
		if err != nil {
			return err
		}

		fmt.Println(ux.Success(fmt.Sprintf("Complaint #%d filed", complaint.ID)))
		fmt.Printf("Status: %s\n", ux.StatusBadge(complaint.Status))
		return nil
	},
}

// complaintAttachmentCmd downloads an attachment
var complaintAttachmentCmd = &cobra.Command{
	Use:   "attachment <id>",
	Short: "Download a complaint attachment",
	Long: `Download a complaint attachment by its attachment id.

Writes the raw bytes to the file given with --output, or to stdout when no
output file is given.

Examples:
  civicdesk complaint attachment 7 --output pothole.jpg
  civicdesk complaint attachment 7 > pothole.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid attachment id: %s", args[0])
		}
		output, _ := cmd.Flags().GetString("output")

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := requireLogin(app); err != nil {
			return err
		}

		data, err := app.client.Attachment(cmd.Context(), id)
		if err != nil {
			return err
		}

		if output == "" {
			_, err = os.Stdout.Write(data)
			return err
		}

		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		fmt.Println(ux.Success(fmt.Sprintf("Saved %d bytes to %s", len(data), output)))
		return nil
	},
}

// requireLogin fails early with a friendly error instead of letting the
// backend reject the request.
func requireLogin(app *app) error {
	if !app.session.IsAuthenticated() {
		return errors.NewNotLoggedInError()
	}
	return nil
}

func init() {
	complaintListCmd.Flags().String("status", "", "filter by status: PENDING, IN_PROGRESS, RESOLVED, REJECTED")
	complaintListCmd.Flags().Int("page", 0, "page number to fetch")
	complaintListCmd.Flags().Int("size", api.DefaultPageSize, "page size")
	complaintListCmd.Flags().Bool("all", false, "fetch every page")

	complaintCreateCmd.Flags().String("title", "", "complaint title")
	complaintCreateCmd.Flags().String("description", "", "complaint description")
	complaintCreateCmd.Flags().String("type", "", "complaint type, see 'civicdesk complaint types'")
	complaintCreateCmd.Flags().String("location", "", "free-text location")
	complaintCreateCmd.Flags().Float64("lat", 0, "latitude")
	complaintCreateCmd.Flags().Float64("lon", 0, "longitude")
	complaintCreateCmd.Flags().StringArray("image", nil, "image file to attach (repeatable, at most 3)")

	complaintAttachmentCmd.Flags().StringP("output", "o", "", "file to write the attachment to")

	complaintCmd.AddCommand(complaintListCmd)
	complaintCmd.AddCommand(complaintShowCmd)
	complaintCmd.AddCommand(complaintCreateCmd)
	complaintCmd.AddCommand(complaintAttachmentCmd)
	complaintCmd.AddCommand(complaintTypesCmd)
	rootCmd.AddCommand(complaintCmd)
}

// complaintTypesCmd lists the accepted complaint types
var complaintTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the accepted complaint types",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range api.ComplaintTypes() {
			fmt.Printf("%-15s %s\n", string(t), t.Label())
		}
		return nil
	},
}
