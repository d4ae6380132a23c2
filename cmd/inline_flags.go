package cmd

// addInlineFlags adds the various flags for the inline command
func addInlineFlags() error {
	addCompilationFlags(inlineCmd)

	// Output format
	inlineCmd.Flags().Bool("json", false, "print the result in the same shape the HTTP API returns")

	return nil
}
