package summary

import (
	"fmt"
	"strings"
)

// conciseCommitThreshold selects the short prompt templates: small commit
// sets get concise prompts with no empty category filler.
const conciseCommitThreshold = 5

const generateSystemPrompt = "You are an experienced technical writer who creates clear, structured summaries with proper markdown formatting."

const mergeSystemPrompt = "You are an expert technical writer who creates comprehensive, well-organized summaries."

// buildPrompt renders the user prompt for one generation call.
func buildPrompt(kind Kind, baseContext, outputLanguage string, totalCommits int, extended bool) string {
	concise := totalCommits <= conciseCommitThreshold

	switch kind {
	case Technical:
		if concise {
			return conciseTechnicalPrompt(baseContext, outputLanguage, extended)
		}
		return fullTechnicalPrompt(baseContext, outputLanguage, extended)
	default:
		if concise {
			return conciseBusinessPrompt(baseContext, outputLanguage, extended)
		}
		return fullBusinessPrompt(baseContext, outputLanguage, extended)
	}
}

func extendedFocusLine(extended bool) string {
	if !extended {
		return ""
	}
	return "\n- Focus on the most significant changes and their technical implications based on file statistics"
}

func extendedScopeLine(extended bool) string {
	if !extended {
		return ""
	}
	return "\n- Consider the overall scope and significance based on the extent of changes"
}

func conciseTechnicalPrompt(baseContext, lang string, extended bool) string {
	return fmt.Sprintf(`You are a senior software developer writing a technical changelog for a development team.

Analyze these commits and create a concise technical summary in %s:

%s

Create a structured technical summary. Start directly with content (no top-level ### header).

Write a 1-2 sentence overview of the changes, then list each change as a bullet point with specific details about what was changed and why. Use #### headers only if there are multiple distinct categories of changes. Skip categories with no relevant changes.

Requirements:
- Start directly with the overview text (no ### header)
- Use #### for sub-sections only when needed
- Use bullet lists (-) for all items
- Be concise, only include relevant categories
- Provide specific details about what was changed and why%s

Write in a clear, structured format with proper markdown formatting.`, lang, baseContext, extendedFocusLine(extended))
}

func fullTechnicalPrompt(baseContext, lang string, extended bool) string {
	return fmt.Sprintf(`You are a senior software developer writing a technical changelog for a development team.

Analyze these commits and create a structured technical summary in %s:

%s

Create a structured technical summary. Start directly with content (no top-level ### header):

[Write 1-2 sentence overview of the week's development activity]

#### Main Changes by Category

**Features:**
- [List each new feature added as a bullet point]

**Bug Fixes:**
- [List each bug fix as a bullet point]

**Refactoring:**
- [List code improvements and restructuring]

**Infrastructure/DevOps:**
- [List build, deployment, and tooling changes]

**Documentation:**
- [List documentation updates]

**Testing:**
- [List test additions and improvements]

#### Technical Highlights
- [Key architectural decisions made]
- [Performance improvements implemented]
- [Security enhancements added]

Requirements:
- Start directly with the overview text (no ### header)
- Use #### for sub-sections
- Use bold text (**text:**) for category labels
- Use bullet lists (-) for all items
- Skip categories with no relevant changes
- Provide specific details about what was changed and why%s

Write in a clear, structured format with proper markdown formatting.`, lang, baseContext, extendedFocusLine(extended))
}

func conciseBusinessPrompt(baseContext, lang string, extended bool) string {
	return fmt.Sprintf(`You are a product manager communicating updates to stakeholders and end users.

Translate these technical commits into business impact in %s:

%s

Create a business-focused summary. Start directly with content (no top-level ### header).

Write a 2-3 sentence overview for a non-technical audience, then list key impacts as bullet points. Only include sections that are relevant to the actual changes. Skip sections with no relevant impact.

Requirements:
- Start directly with the overview text (no ### header)
- Use #### for sub-sections only when needed
- Use bullet lists (-) for all items
- Avoid technical jargon and implementation details
- Focus on benefits, outcomes, and user value
- Be concise, only include relevant sections%s

Write in a clear, business-focused style with proper markdown formatting.`, lang, baseContext, extendedScopeLine(extended))
}

func fullBusinessPrompt(baseContext, lang string, extended bool) string {
	return fmt.Sprintf(`You are a product manager communicating updates to stakeholders and end users.

Translate these technical commits into business impact in %s:

%s

Create a business-focused summary. Start directly with content (no top-level ### header):

[Write 2-3 sentence overview for non-technical audience explaining what was accomplished this week]

#### User Experience Impact
- [How these changes affect what users see and experience]

#### Business Benefits
- [Value delivered to the organization]

#### Performance & Reliability
- [Improvements in system speed or responsiveness]

#### New Capabilities
- [New features or functionality now available]

#### Important Changes to Note
- [Breaking changes or significant updates users should be aware of]

Requirements:
- Start directly with the overview text (no ### header)
- Use #### for sub-sections
- Use bullet lists (-) for all items
- Skip sections with no relevant changes
- Avoid technical jargon and implementation details
- Focus on benefits, outcomes, and user value%s

Write in a clear, business-focused style with proper markdown formatting.`, lang, baseContext, extendedScopeLine(extended))
}

// buildMergePrompt renders the prompt for one merge call over the given
// chunk summaries.
func buildMergePrompt(summaries []string, kind Kind, totalCommits int, outputLanguage string) string {
	labeled := make([]string, len(summaries))
	for i, s := range summaries {
		labeled[i] = fmt.Sprintf("Chunk %d:\n%s", i+1, s)
	}
	combined := strings.Join(labeled, "\n\n---\n\n")

	return fmt.Sprintf(`You are merging multiple changelog summaries into a single cohesive summary.

You have %d summaries covering %d total commits.

Here are the individual chunk summaries:

%s

Your task: Create ONE unified, well-structured summary that:
1. Combines all information from the chunks
2. Removes duplicates and redundant information
3. Organizes content logically by category
4. Maintains proper markdown formatting with headers and bullets
5. Is comprehensive and covers all significant changes
6. Flows naturally as a single document

Ensure output starts directly with content (no ### level headers). Use #### for sub-sections.
Use the same structure and formatting as the individual chunks.
Language: %s

Generate the merged %s:`, len(summaries), totalCommits, combined, outputLanguage, kind)
}
