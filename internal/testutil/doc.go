// Package testutil provides common test utilities and helpers for the clifixture test suite.
//
// The package includes four main components:
//
// ConfigBuilder: A fluent interface for building .clifixture.json files
//   - Create configurations with NewConfigBuilder()
//   - Write them with WriteToFile() or CreateTestConfigFile()
//
// Project: A throwaway project laid out like a real one
//   - NewProject() creates root, fixtures directory and a shell tool under test
//   - WriteSuite() adds fixture files below the fixtures directory
//
// ResultBuilder: Canned Execute outcomes for fake executors
//   - Success(), Failure(), Signal(), NotFound() and TimedOut()
//   - Build() returns the (result, error) pair Execute would return
//
// CommandHelpers and OutputCapture: platform helpers and thread-safe writers
//   - SkipOnWindows() and RequireCommand() guard shell-based tests
//   - TestWriter provides a thread-safe io.Writer for tests
//
// Example usage:
//
//	project := testutil.NewProject(t)
//	project.WriteSuite("expected/basic.yaml", suiteYAML)
//
//	exec := func() (*executor.ExecResult, error) {
//		return testutil.NewResultBuilder().Failure(2, "not ok 1").Build()
//	}
package testutil
