package cmd

import (
	"fmt"

	"github.com/kozaktomas/inspection-report/internal/photoset"
	"github.com/spf13/cobra"
)

// nullValue stands for a NULL photo column on the command line.
const nullValue = "null"

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Inspect and edit stored photo fields",
	Long: `Work with the value stored in a finding's before_photo or after_photo
column. A column holds nothing (null), a single URI, or a JSON array of URIs.
Pass the literal "null" for an empty column.`,
}

var photosDecodeCmd = &cobra.Command{
	Use:   "decode <value>",
	Short: "Show the photos held by a stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPhotoValue(parseStoredArg(args[0]), mustGetBool(cmd, "json"))
	},
}

var photosAddCmd = &cobra.Command{
	Use:   "add <value> <uri>...",
	Short: "Append photos to a stored value and print the new value",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := photoset.AddPhotos(parseStoredArg(args[0]), args[1:]...)
		return printPhotoValue(value, mustGetBool(cmd, "json"))
	},
}

var photosRemoveCmd = &cobra.Command{
	Use:   "remove <value> <uri>",
	Short: "Remove a photo from a stored value and print the new value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := photoset.RemovePhoto(parseStoredArg(args[0]), args[1])
		return printPhotoValue(value, mustGetBool(cmd, "json"))
	},
}

func init() {
	rootCmd.AddCommand(photosCmd)
	photosCmd.AddCommand(photosDecodeCmd, photosAddCmd, photosRemoveCmd)
	photosCmd.PersistentFlags().Bool("json", false, "Output as JSON")
}

type photoValueOutput struct {
	Value *string  `json:"value"`
	Kind  string   `json:"kind"`
	URIs  []string `json:"uris"`
}

func parseStoredArg(arg string) *string {
	if arg == nullValue {
		return nil
	}
	return &arg
}

func describePhotoValue(value *string) photoValueOutput {
	set := photoset.Parse(value)
	return photoValueOutput{Value: value, Kind: set.Kind().String(), URIs: set.URIs()}
}

func printPhotoValue(value *string, asJSON bool) error {
	out := describePhotoValue(value)
	if asJSON {
		return outputJSON(out)
	}

	stored := nullValue
	if out.Value != nil {
		stored = *out.Value
	}
	fmt.Printf("Value: %s\n", stored)
	fmt.Printf("Kind:  %s (%d photos)\n", out.Kind, len(out.URIs))
	for i, uri := range out.URIs {
		fmt.Printf("  %d. %s\n", i+1, uri)
	}
	return nil
}
