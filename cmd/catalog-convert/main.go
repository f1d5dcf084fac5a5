package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/airwatch/internal/hotspot"
	"github.com/chrissnell/airwatch/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required unless -reference)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		reference  = flag.Bool("reference", false, "Store the built-in reference hotspot catalog when the YAML has none")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *sqliteFile == "" || (*yamlFile == "" && !*reference) {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <airwatch.yaml> -sqlite <airwatch.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	configData := &config.ConfigData{}
	if *yamlFile != "" {
		fmt.Printf("Loading YAML configuration from %s...\n", *yamlFile)
		var err error
		configData, err = config.NewYAMLProvider(*yamlFile).LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
			os.Exit(1)
		}
	}
	if *reference && len(configData.Hotspots) == 0 {
		configData.Hotspots = hotspot.Reference().Hotspots()
	}

	// Validate a defaulted copy so unset fields stay unset in the database
	check := *configData
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	printConfigSummary(configData)

	if *dryRun {
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	// Remove existing SQLite file if force is specified
	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	if err := convert(*sqliteFile, configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing SQLite configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

func convert(path string, configData *config.ConfigData) error {
	db, err := config.NewSQLiteProvider(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		return err
	}
	return db.SaveConfig(configData)
}

func printConfigSummary(c *config.ConfigData) {
	fmt.Printf("  Server:   %s:%d\n", c.Server.ListenAddr, c.Server.Port)
	fmt.Printf("  Provider: %s %s\n", c.Provider.Type, c.Provider.BaseURL)
	fmt.Printf("  Render:   %dx%d blur=%d\n", c.Render.Width, c.Render.Height, c.Render.BlurRadius)
	if len(c.Hotspots) == 0 {
		fmt.Printf("  Hotspots: none (reference catalog will be used)\n")
		return
	}
	fmt.Printf("  Hotspots: %d\n", len(c.Hotspots))
	for _, h := range c.Hotspots {
		fmt.Printf("    %-28s %8.3f %8.3f  intensity=%.2f radius=%.1f\n", h.Name, h.Latitude, h.Longitude, h.Intensity, h.Radius)
	}
}
