package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/verdantlabs/plantid/internal/config"
	"github.com/verdantlabs/plantid/internal/identify"
	"github.com/verdantlabs/plantid/internal/models"
	"github.com/verdantlabs/plantid/internal/source"
	"gopkg.in/yaml.v3"
)

func newIdentifyCmd() *cobra.Command {
	var imageURL string
	var useCamera bool
	var cameraDevice string
	var providerName string
	var model string
	var output string

	cmd := &cobra.Command{
		Use:   "identify [image file]",
		Short: "Identify a plant from a photo",
		Long: `Identify a plant from a photo and print its common name, scientific
name, and a short description.

The photo can come from a local file, a URL, or a one-shot webcam
capture (requires ffmpeg).`,
		Example: `  # Identify from a file
  plantid identify photo.jpg

  # Identify from a URL
  plantid identify --url https://example.com/plant.jpg

  # Capture a frame from the default webcam
  plantid identify --camera

  # Machine-readable output
  plantid identify photo.jpg --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := acquirePayload(cmd, args, imageURL, useCamera, cameraDevice)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if providerName == "" {
				providerName = cfg.Provider
			}
			provider, err := identify.NewProvider(providerName, cfg)
			if err != nil {
				return err
			}
			if model == "" {
				model = cfg.ModelFor(providerName)
			}
			service := identify.NewService(provider, model, cfg.Temperature, cfg.MaxImageDimension)

			record, err := service.Identify(cmd.Context(), payload)
			if err != nil {
				return err
			}

			return printRecord(record, output)
		},
	}

	cmd.Flags().StringVar(&imageURL, "url", "", "Identify the image at this URL")
	cmd.Flags().BoolVar(&useCamera, "camera", false, "Capture a frame from the webcam")
	cmd.Flags().StringVar(&cameraDevice, "device", "/dev/video0", "Webcam device to capture from")
	cmd.Flags().StringVar(&providerName, "provider", "", "Inference provider (gemini, ollama, or openai; defaults to configured provider)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's configured model)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, or yaml)")

	return cmd
}

func acquirePayload(cmd *cobra.Command, args []string, imageURL string, useCamera bool, cameraDevice string) (*source.Payload, error) {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if imageURL != "" {
		sources++
	}
	if useCamera {
		sources++
	}
	switch sources {
	case 0:
		return nil, fmt.Errorf("no image given: pass a file, --url, or --camera")
	case 1:
	default:
		return nil, fmt.Errorf("pass only one of: a file, --url, or --camera")
	}

	switch {
	case useCamera:
		return source.CaptureFrame(cmd.Context(), source.NewVideoDevice(cameraDevice))
	case imageURL != "":
		return source.FromURL(imageURL)
	default:
		return source.FromFile(args[0])
	}
}

func printRecord(record *models.Record, format string) error {
	switch format {
	case "text":
		fmt.Printf("Common Name:      %s\n", record.Name)
		if record.HasAlternativeName() {
			fmt.Printf("Alternative Name: %s\n", *record.AlternativeName)
		}
		fmt.Printf("Scientific Name:  %s\n", record.ScientificName)
		fmt.Printf("Description:      %s\n", record.Description)
		return nil
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	case "yaml":
		data, err := yaml.Marshal(record)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
