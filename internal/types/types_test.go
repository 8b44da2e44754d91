package types

import "testing"

func TestDeriveTopicID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Goroutines", "goroutines"},
		{"Error Handling", "error-handling"},
		{"  HTTP/2 Support  ", "http-2-support"},
		{"C++ (Basics)!", "c-basics"},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		if got := DeriveTopicID(tt.name); got != tt.want {
			t.Errorf("DeriveTopicID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewTopic_Defaults(t *testing.T) {
	topic, err := NewTopic("Channels", "concurrency")
	if err != nil {
		t.Fatal(err)
	}
	if topic.Status != StatusProposed {
		t.Errorf("expected proposed, got %s", topic.Status)
	}
	if topic.Complexity != ComplexityIntermediate {
		t.Errorf("expected intermediate, got %s", topic.Complexity)
	}
	if topic.EstimatedWordCount != ComplexityIntermediate.MinWords() {
		t.Errorf("expected %d words, got %d", ComplexityIntermediate.MinWords(), topic.EstimatedWordCount)
	}
	if err := topic.Validate(); err != nil {
		t.Errorf("fresh topic should validate: %v", err)
	}
}

func TestNewTopic_BlankName(t *testing.T) {
	if _, err := NewTopic("   ", ""); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in   string
		want ContentType
	}{
		{"tutorial", ContentTutorial},
		{" HOW-TO ", ContentHowTo},
		{"howto", ContentHowTo},
		{"nonsense", ContentConcept},
		{"", ContentConcept},
	}
	for _, tt := range tests {
		if got := ParseContentType(tt.in); got != tt.want {
			t.Errorf("ParseContentType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestComplexityMinWords(t *testing.T) {
	if ComplexityBeginner.MinWords() != 600 {
		t.Errorf("beginner = %d", ComplexityBeginner.MinWords())
	}
	if ComplexityIntermediate.MinWords() != 1000 {
		t.Errorf("intermediate = %d", ComplexityIntermediate.MinWords())
	}
	if ComplexityAdvanced.MinWords() != 2000 {
		t.Errorf("advanced = %d", ComplexityAdvanced.MinWords())
	}
}

func TestRelationshipImpliesOrdering(t *testing.T) {
	ordering := []RelationshipType{RelPrerequisiteOf, RelImplements, RelSupersedes}
	for _, rt := range ordering {
		if !rt.ImpliesOrdering() {
			t.Errorf("%s should imply ordering", rt)
		}
	}
	free := []RelationshipType{RelPartOf, RelRelatedTo, RelExampleOf, RelContrastsWith, RelPairsWith}
	for _, rt := range free {
		if rt.ImpliesOrdering() {
			t.Errorf("%s should not imply ordering", rt)
		}
	}
}

func TestNewTopicRelationship_SelfReference(t *testing.T) {
	if _, err := NewTopicRelationship("maps", "maps", RelRelatedTo); err == nil {
		t.Fatal("expected error for self-referential edge")
	}
}

func TestScopeConfiguration_Normalization(t *testing.T) {
	scope := NewScopeConfiguration(ScopeConfiguration{
		AssumedKnowledge: []string{" Basic Go ", "basic go", "", "Algorithms"},
	})
	if len(scope.AssumedKnowledge) != 2 {
		t.Fatalf("expected dedup to 2 entries, got %v", scope.AssumedKnowledge)
	}
	// Sorted output keeps prompt construction deterministic.
	if scope.AssumedKnowledge[0] != "Algorithms" {
		t.Errorf("expected sorted output, got %v", scope.AssumedKnowledge)
	}
}

func TestScopeConfiguration_Excludes(t *testing.T) {
	scope := NewScopeConfiguration(ScopeConfiguration{
		OutOfScope: []string{"Kubernetes Internals"},
	})
	if !scope.Excludes(" kubernetes internals ") {
		t.Error("exclusion should be case-insensitive")
	}
	if scope.Excludes("Kubernetes") {
		t.Error("exclusion is exact match, not prefix")
	}
}
