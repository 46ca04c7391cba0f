package detach_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/forksweep/internal/githubapi"
	"github.com/temirov/forksweep/internal/repos/detach"
	"github.com/temirov/forksweep/internal/repos/shared"
)

type stubLister struct {
	repositories []shared.Repository
	err          error
}

func (lister stubLister) ListOwnedRepositories(executionContext context.Context) ([]shared.Repository, error) {
	return lister.repositories, lister.err
}

type recordingGitHubClient struct {
	detachFailures  map[string]error
	privateFailures map[string]error
	calls           []string
}

func (client *recordingGitHubClient) DetachFromForkNetwork(executionContext context.Context, repository shared.Repository) error {
	client.calls = append(client.calls, "detach:"+repository.Name)
	return client.detachFailures[repository.Name]
}

func (client *recordingGitHubClient) MakePrivate(executionContext context.Context, repository shared.Repository) error {
	client.calls = append(client.calls, "private:"+repository.Name)
	return client.privateFailures[repository.Name]
}

type stubPrompter struct {
	confirmed bool
	err       error
	phrases   []string
}

func (prompter *stubPrompter) Confirm(prompt string, requiredPhrase string) (bool, error) {
	prompter.phrases = append(prompter.phrases, requiredPhrase)
	return prompter.confirmed, prompter.err
}

const (
	detachTestOwner       = "octocat"
	detachTestSummaryRule = "============================================================"
)

func TestMain(mainInstance *testing.M) {
	color.NoColor = true
	os.Exit(mainInstance.Run())
}

func testRepository(name string, fork bool) shared.Repository {
	return shared.Repository{
		Owner:    detachTestOwner,
		Name:     name,
		FullName: detachTestOwner + "/" + name,
		HTMLURL:  "https://github.com/octocat/" + name,
		Fork:     fork,
		NodeID:   "R_" + name,
	}
}

func TestExecutorDetachesAndPrivatizesForks(testInstance *testing.T) {
	repositories := []shared.Repository{
		testRepository("a", true),
		testRepository("b", false),
		testRepository("c", true),
		testRepository("d", true),
		testRepository("e", true),
	}
	client := &recordingGitHubClient{
		detachFailures: map[string]error{
			"c": githubapi.OperationError{
				Operation:  githubapi.OperationDetachForkFromNetwork,
				Repository: "octocat/c",
				StatusCode: http.StatusInternalServerError,
				Category:   githubapi.ErrorCategoryServerError,
				Message:    "Server Error",
			},
		},
		privateFailures: map[string]error{
			"d": githubapi.OperationError{
				Operation:  githubapi.OperationMakePrivate,
				Repository: "octocat/d",
				StatusCode: http.StatusUnprocessableEntity,
				Category:   githubapi.ErrorCategoryPublicForkUnsupported,
				Message:    "Validation Failed; Public forks can't be made private",
			},
			"e": errors.New("connection reset by peer"),
		},
	}
	prompter := &stubPrompter{confirmed: true}
	outputBuffer := &bytes.Buffer{}

	summary, executionError := detach.NewExecutor(detach.Dependencies{
		Lister:   stubLister{repositories: repositories},
		Detacher: client,
		Editor:   client,
		Prompter: prompter,
		Output:   outputBuffer,
	}).Execute(context.Background(), detach.Options{})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, []string{detach.ConfirmationPhrase}, prompter.phrases)
	require.Equal(testInstance, []string{
		"detach:a", "private:a",
		"detach:c",
		"detach:d", "private:d",
		"detach:e", "private:e",
	}, client.calls)
	require.Equal(testInstance, detach.Summary{
		Outcome:         shared.RunOutcomeCompleted,
		Total:           4,
		Detached:        3,
		Privatized:      1,
		DetachFailed:    1,
		PrivatizeFailed: 1,
		Unsupported:     1,
	}, summary)
	require.Equal(testInstance, summary.Total, summary.Privatized+summary.DetachFailed+summary.PrivatizeFailed+summary.Unsupported)
	require.Equal(testInstance, summary.Total-summary.DetachFailed, summary.Detached)

	expectedOutput := strings.Join([]string{
		"Found 4 forked repositories:\n",
		"  - octocat/a\n",
		"  - octocat/c\n",
		"  - octocat/d\n",
		"  - octocat/e\n",
		"\nThis will detach 4 forks from their fork network and make them private.\n\n",
		"\n[1/4] Processing fork: a\n",
		"  ✓ Detached from fork network\n",
		"  ✓ Made private: a\n",
		"\n[2/4] Processing fork: c\n",
		"  ✗ Failed to detach: DetachForkFromNetwork octocat/c failed (status 500): Server Error\n",
		"\n[3/4] Processing fork: d\n",
		"  ✓ Detached from fork network\n",
		"  ⚠ Cannot make private: d\n",
		"    GitHub doesn't allow public forks to be made private.\n",
		"    To make it private, you need to:\n",
		"    1. Delete the repository: https://github.com/octocat/d\n",
		"    2. Create a new private repository with the same name\n",
		"    3. Push your code to the new repository\n",
		"\n[4/4] Processing fork: e\n",
		"  ✓ Detached from fork network\n",
		"  ✗ Error making private: connection reset by peer\n",
		"\n" + detachTestSummaryRule + "\n",
		"Summary:\n",
		"  ✓ Detached: 3\n",
		"  ✓ Made private: 1\n",
		"  ✗ Detach failed: 1\n",
		"  ✗ Privatize failed: 1\n",
		"  ⚠ Manual action required (public forks): 1\n",
		detachTestSummaryRule + "\n",
		"\nDone!\n",
	}, "")
	require.Equal(testInstance, expectedOutput, outputBuffer.String())
}

func TestExecutorBehaviors(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		repositories            []shared.Repository
		options                 detach.Options
		prompter                *stubPrompter
		expectedCalls           []string
		expectedSummary         detach.Summary
		expectedOutputFragments []string
	}{
		{
			name:                    "no_forks",
			repositories:            []shared.Repository{testRepository("b", false)},
			prompter:                &stubPrompter{confirmed: true},
			expectedSummary:         detach.Summary{Outcome: shared.RunOutcomeNothingToDo},
			expectedOutputFragments: []string{"No forked repositories found!\n"},
		},
		{
			name:                    "phrase_mismatch_cancels",
			repositories:            []shared.Repository{testRepository("a", true)},
			prompter:                &stubPrompter{confirmed: false},
			expectedSummary:         detach.Summary{Outcome: shared.RunOutcomeCancelled, Total: 1},
			expectedOutputFragments: []string{"\nCancelled. No repositories were modified.\n"},
		},
		{
			name:          "assume_yes",
			repositories:  []shared.Repository{testRepository("a", true)},
			options:       detach.Options{ConfirmationPolicy: shared.ConfirmationAssumeYes},
			prompter:      &stubPrompter{},
			expectedCalls: []string{"detach:a", "private:a"},
			expectedSummary: detach.Summary{
				Outcome:    shared.RunOutcomeCompleted,
				Total:      1,
				Detached:   1,
				Privatized: 1,
			},
			expectedOutputFragments: []string{"  ✓ Made private: a\n", "\nDone!\n"},
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			client := &recordingGitHubClient{}
			outputBuffer := &bytes.Buffer{}

			summary, executionError := detach.NewExecutor(detach.Dependencies{
				Lister:   stubLister{repositories: testCase.repositories},
				Detacher: client,
				Editor:   client,
				Prompter: testCase.prompter,
				Output:   outputBuffer,
			}).Execute(context.Background(), testCase.options)
			require.NoError(subtest, executionError)
			require.Equal(subtest, testCase.expectedCalls, client.calls)
			require.Equal(subtest, testCase.expectedSummary, summary)
			for _, fragment := range testCase.expectedOutputFragments {
				require.Contains(subtest, outputBuffer.String(), fragment)
			}
		})
	}
}

func TestExecutorFatalErrors(testInstance *testing.T) {
	enumerationFailure := errors.New("bad credentials")
	promptFailure := errors.New("stdin closed")
	client := &recordingGitHubClient{}

	testCases := []struct {
		name          string
		dependencies  detach.Dependencies
		expectedError error
	}{
		{
			name:          "missing_lister",
			dependencies:  detach.Dependencies{Detacher: client, Editor: client},
			expectedError: detach.ErrListerNotConfigured,
		},
		{
			name:          "missing_detacher",
			dependencies:  detach.Dependencies{Lister: stubLister{}, Editor: client},
			expectedError: detach.ErrDetacherNotConfigured,
		},
		{
			name:          "missing_editor",
			dependencies:  detach.Dependencies{Lister: stubLister{}, Detacher: client},
			expectedError: detach.ErrEditorNotConfigured,
		},
		{
			name:          "enumeration_failure",
			dependencies:  detach.Dependencies{Lister: stubLister{err: enumerationFailure}, Detacher: client, Editor: client},
			expectedError: enumerationFailure,
		},
		{
			name: "prompt_failure",
			dependencies: detach.Dependencies{
				Lister:   stubLister{repositories: []shared.Repository{testRepository("a", true)}},
				Detacher: client,
				Editor:   client,
				Prompter: &stubPrompter{err: promptFailure},
			},
			expectedError: promptFailure,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			_, executionError := detach.NewExecutor(testCase.dependencies).Execute(context.Background(), detach.Options{})
			require.ErrorIs(subtest, executionError, testCase.expectedError)
		})
	}
	require.Empty(testInstance, client.calls)
}

func TestIsPublicForkUnsupported(testInstance *testing.T) {
	require.False(testInstance, detach.IsPublicForkUnsupported(nil))
	require.True(testInstance, detach.IsPublicForkUnsupported(githubapi.OperationError{Category: githubapi.ErrorCategoryPublicForkUnsupported}))
	require.True(testInstance, detach.IsPublicForkUnsupported(errors.New("422 Public forks can't be made private")))
	require.False(testInstance, detach.IsPublicForkUnsupported(githubapi.OperationError{Category: githubapi.ErrorCategoryValidationFailed, Message: "name taken"}))
}

func TestExecutorTreatsOkDetachResponseWithGraphQLErrorsAsDetached(testInstance *testing.T) {
	graphQLCalls := 0
	patchCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(responseWriter http.ResponseWriter, request *http.Request) {
		graphQLCalls++
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(responseWriter, `{"errors":[{"message":"something"}]}`)
	})
	mux.HandleFunc("/repos/octocat/a", func(responseWriter http.ResponseWriter, request *http.Request) {
		assert.Equal(testInstance, http.MethodPatch, request.Method)
		patchCalls++
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(responseWriter, `{"name":"a","private":true}`)
	})
	server := httptest.NewServer(mux)
	testInstance.Cleanup(server.Close)

	client, clientError := githubapi.NewClient(githubapi.Configuration{
		Token:      "test-token",
		APIBaseURL: server.URL,
		GraphQLURL: server.URL + "/graphql",
	}, nil)
	require.NoError(testInstance, clientError)

	outputBuffer := &bytes.Buffer{}
	summary, executionError := detach.NewExecutor(detach.Dependencies{
		Lister:   stubLister{repositories: []shared.Repository{testRepository("a", true)}},
		Detacher: client,
		Editor:   client,
		Output:   outputBuffer,
	}).Execute(context.Background(), detach.Options{ConfirmationPolicy: shared.ConfirmationAssumeYes})
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, 1, graphQLCalls)
	require.Equal(testInstance, 1, patchCalls)
	require.Equal(testInstance, detach.Summary{
		Outcome:    shared.RunOutcomeCompleted,
		Total:      1,
		Detached:   1,
		Privatized: 1,
	}, summary)
	require.Contains(testInstance, outputBuffer.String(), "  ✓ Detached from fork network\n")
	require.Contains(testInstance, outputBuffer.String(), "  ✓ Made private: a\n")
	require.NotContains(testInstance, outputBuffer.String(), "Failed to detach")
}
