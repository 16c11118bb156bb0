package classifier

// Pattern tables. Each table is an ordered list of lowercase literals matched
// by substring containment against the lowercased terminal text. Order only
// matters for readability; any match in a table counts.
var (
	// UserInputPatterns detect open-ended questions that need a substantive
	// human answer. These take priority over proceed prompts.
	UserInputPatterns = []string{
		"what is",
		"which file",
		"which framework",
		"which database",
		"enter the",
		"provide the",
		"what should",
		"where should",
		"where would you like",
		"how should",
		"how would you like",
		"what would you like",
		"what type of",
		"what's the",
		"please specify",
		"please enter",
		"name of the",
		"path to the",
	}

	// CompletionPatterns detect that the assistant considers its task done.
	CompletionPatterns = []string{
		"commit message",
		"please test",
		"testing complete",
		"implementation complete",
		"task completed",
		"finished",
		"done",
		"success",
		"all tests pass",
	}

	// NewTaskPatterns detect the assistant starting a new unit of work, which
	// after a completion pause means the human typed a follow-up request.
	NewTaskPatterns = []string{
		"i'll help you",
		"i can help",
		"let me help",
		"sure, i can",
		"i'll implement",
		"i'll create",
		"i'll add",
		"i'll build",
		"let's implement",
		"let's create",
		"let's add",
		"let's build",
		"what would you like",
		"how can i help",
		"what do you need",
		"what should we",
		"i'll start by",
		"let me start",
		"first, i'll",
		"i understand you want",
		"i'll work on",
	}

	// ProceedPatterns detect a yes/continue question. A match alone is not
	// enough to proceed; see ConfirmationPatterns.
	ProceedPatterns = []string{
		"continue?",
		"proceed?",
		"do you want to proceed",
		"would you like to proceed",
		"should i continue",
		"should i proceed",
		"continue with",
		"shall i continue",
		"shall i proceed",
		"want to proceed",
	}

	// ConfirmationPatterns detect a visible choice affordance that "1" or
	// "y" answers.
	ConfirmationPatterns = []string{
		"1)",
		"[1]",
		"(1)",
		"1) yes",
		"(y/n)",
		"y/n",
		"1 -",
		"1:",
		"1 ",
	}
)
