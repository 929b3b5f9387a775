// Package resume extracts candidate details from a resume with a
// StructuredNode and matches them against a list of target skills.
package resume

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/alt-coder/pocketgraph/nodes"
)

// Shared keys.
const (
	KeyPath    = "resume_path"
	KeyText    = nodes.DefaultInputKey
	KeyData    = "resume"
	KeyMatched = "matched_skills"
)

// Data is what the provider is asked to return.
type Data struct {
	Name         string       `yaml:"name" json:"name" description:"Full name of the candidate"`
	Email        string       `yaml:"email" json:"email" description:"Email address of the candidate"`
	Experience   []Experience `yaml:"experience" json:"experience" description:"List of work experience entries"`
	SkillIndexes []int        `yaml:"skill_indexes" json:"skill_indexes" description:"Indexes of the target skills found in the resume"`
}

// Experience is one work experience entry.
type Experience struct {
	Title   string `yaml:"title" json:"title" description:"Job title or position held"`
	Company string `yaml:"company" json:"company" description:"Company or organization name"`
}

// DefaultSkills is used when no target skills are given.
var DefaultSkills = []string{
	"Team leadership & management",
	"CRM software",
	"Project management",
	"Public speaking",
	"Microsoft Office",
	"Python",
	"Data Analysis",
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator rejects replies with missing fields, a malformed email or skill
// indexes outside the target list.
type Validator struct {
	SkillCount int
}

// Validate implements structured.Validator.
func (v Validator) Validate(data *Data) error {
	if data == nil {
		return fmt.Errorf("resume data cannot be nil")
	}

	var problems []string
	if strings.TrimSpace(data.Name) == "" {
		problems = append(problems, "name is required")
	}
	switch email := strings.TrimSpace(data.Email); {
	case email == "":
		problems = append(problems, "email is required")
	case !emailPattern.MatchString(email):
		problems = append(problems, fmt.Sprintf("email %q is not a valid address", email))
	}
	for i, exp := range data.Experience {
		if strings.TrimSpace(exp.Title) == "" {
			problems = append(problems, fmt.Sprintf("experience[%d].title is required", i))
		}
		if strings.TrimSpace(exp.Company) == "" {
			problems = append(problems, fmt.Sprintf("experience[%d].company is required", i))
		}
	}
	for i, idx := range data.SkillIndexes {
		if idx < 0 || idx >= v.SkillCount {
			problems = append(problems, fmt.Sprintf("skill_indexes[%d] = %d is outside 0..%d", i, idx, v.SkillCount-1))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("resume validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// NewFlow builds load -> extract -> match. The resume is read from the file
// at shared[KeyPath], or taken from shared[KeyText] when no path is set.
// Extraction failures are retried per opts.
func NewFlow(provider llm.LLMProvider, skills []string, opts ...core.NodeOption) *core.Flow {
	if len(skills) == 0 {
		skills = DefaultSkills
	}

	load := core.NewFunc(core.FuncNode[string, string]{
		PrepFn: func(_ context.Context, shared core.Shared) (string, error) {
			path, _ := core.Get[string](shared, KeyPath)
			return path, nil
		},
		ExecFn: func(_ context.Context, path string) (string, error) {
			if path == "" {
				return "", nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read resume: %w", err)
			}
			return string(data), nil
		},
		PostFn: func(_ context.Context, shared core.Shared, _ string, text string) (core.Action, error) {
			if text != "" {
				shared[KeyText] = text
			}
			return core.ActionDefault, nil
		},
	}, core.WithName("load"))

	extract := nodes.NewStructuredNode(provider, nodes.StructuredConfig[Data]{
		InputKey:     KeyText,
		OutputKey:    KeyData,
		Instructions: instructions(skills),
		Validator:    Validator{SkillCount: len(skills)},
	}, append([]core.NodeOption{core.WithName("extract")}, opts...)...)

	match := core.NewFunc(core.FuncNode[*Data, []string]{
		PrepFn: func(_ context.Context, shared core.Shared) (*Data, error) {
			data, ok := core.Get[*Data](shared, KeyData)
			if !ok {
				return nil, fmt.Errorf("no resume under %q", KeyData)
			}
			return data, nil
		},
		ExecFn: func(_ context.Context, data *Data) ([]string, error) {
			matched := make([]string, 0, len(data.SkillIndexes))
			for _, idx := range data.SkillIndexes {
				matched = append(matched, skills[idx])
			}
			return matched, nil
		},
		PostFn: func(_ context.Context, shared core.Shared, _ *Data, matched []string) (core.Action, error) {
			shared[KeyMatched] = matched
			return core.ActionSuccess, nil
		},
	}, core.WithName("match"))

	load.Next(extract)
	extract.Next(match)
	return core.NewFlow(load, core.WithName("resume"))
}

func instructions(skills []string) string {
	var b strings.Builder
	b.WriteString("Extract the candidate's details from the resume below.\n\n")
	b.WriteString("**Target Skills (use these indexes for skill_indexes):**\n```\n")
	for i, skill := range skills {
		fmt.Fprintf(&b, "%d: %s\n", i, skill)
	}
	b.WriteString("```\nOnly include indexes of skills the resume actually mentions.")
	return b.String()
}
