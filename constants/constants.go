package constants

import "os"

// IndexFilename is the name of the melody index JSON inside a database root.
const IndexFilename = "melody_index.json"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./output"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "2333"
}
