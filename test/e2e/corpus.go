// Package e2e provides end-to-end tests: chat pages are captured through the
// relay into a real database, then searched back.
package e2e

import (
	"fmt"
	"strings"
)

// Answer is an assistant response in the E2E corpus together with the title the
// user gives it when saving.
type Answer struct {
	Title   string
	Content string
}

// QueryTestCase defines a query and the answer titles that must be returned.
type QueryTestCase struct {
	Query          string
	ExpectedTitles []string
	Fuzzy          bool
	Description    string
}

// Corpus holds answers and query test cases for E2E tests.
type Corpus struct {
	Answers      []Answer
	TestCases    []QueryTestCase
	TotalAnswers int
	TotalQueries int
}

var topics = []struct {
	title   string
	phrase  string
	content string
}{
	{"Python Guide", "Python programming language", "Python is a high-level programming language. Python programming language is used for web development and data science."},
	{"Kubernetes Docs", "Kubernetes container orchestration", "Kubernetes is an open-source container orchestration platform. Kubernetes container orchestration automates deployment and scaling."},
	{"React Tutorial", "React hooks and components", "React is a JavaScript library. React hooks and components enable building user interfaces."},
	{"Go Language", "Go golang concurrency", "Go is a statically typed language. Go golang concurrency is achieved with goroutines and channels."},
	{"PostgreSQL Manual", "PostgreSQL relational database", "PostgreSQL is an advanced relational database. PostgreSQL relational database supports JSON and full-text search."},
	{"Docker Handbook", "Docker container images", "Docker enables building and shipping applications. Docker container images are portable across environments."},
	{"Machine Learning", "machine learning algorithms", "Machine learning is a subset of AI. Machine learning algorithms learn patterns from data."},
	{"REST API Design", "REST API endpoints", "REST is an architectural style for APIs. REST API endpoints use HTTP methods and status codes."},
	{"GraphQL Overview", "GraphQL query language", "GraphQL is a query language for APIs. GraphQL query language lets clients request exactly what they need."},
	{"Redis Cache", "Redis in-memory cache", "Redis is an in-memory data store. Redis in-memory cache is used for sessions and caching."},
	{"Terraform IaC", "Terraform infrastructure as code", "Terraform manages cloud infrastructure. Terraform infrastructure as code is declarative."},
	{"Prometheus Metrics", "Prometheus monitoring metrics", "Prometheus is a monitoring system. Prometheus monitoring metrics are time-series based."},
	{"OAuth 2.0", "OAuth 2.0 authorization", "OAuth 2.0 is an authorization framework. OAuth 2.0 authorization enables secure delegated access."},
	{"Git Workflow", "Git version control", "Git is a distributed version control system. Git version control tracks changes in source code."},
	{"Apache Kafka", "Apache Kafka streaming", "Apache Kafka is a distributed event stream platform. Apache Kafka streaming handles high throughput."},
	{"Nginx Config", "Nginx reverse proxy", "Nginx is a web server and reverse proxy. Nginx reverse proxy balances load and serves static files."},
	{"Event Sourcing", "event sourcing CQRS", "Event sourcing stores state as events. Event sourcing CQRS separates read and write models."},
	{"Unit Testing", "unit testing mock", "Unit tests verify small units of code. Unit testing mock isolates dependencies."},
	{"Graceful Shutdown", "graceful shutdown signal", "Graceful shutdown drains connections. Graceful shutdown signal handles SIGTERM."},
	{"Circuit Breaker", "circuit breaker resilience", "Circuit breaker stops cascading failures. Circuit breaker resilience pattern fails fast."},
}

var misspellings = []struct {
	query string
	topic int
}{
	{"Kubernets", 1},
	{"Teraform", 10},
	{"Prometeus", 11},
}

// BuildCorpus returns n answers with unique titles and query test cases that
// target them, by substring and by a misspelt fuzzy query.
func BuildCorpus(n int) *Corpus {
	answers := make([]Answer, 0, n)
	for i := 0; i < n; i++ {
		t := topics[i%len(topics)]
		title := t.title
		if i >= len(topics) {
			title = fmt.Sprintf("%s (%d)", t.title, i+1)
		}
		answers = append(answers, Answer{Title: title, Content: t.content})
	}

	var cases []QueryTestCase
	for i := 0; i < n && i < len(topics); i++ {
		phrase := topics[i].phrase
		var expected []string
		for _, a := range answers {
			if containsPhrase(a, phrase) {
				expected = append(expected, a.Title)
			}
		}
		cases = append(cases, QueryTestCase{
			Query:          phrase,
			ExpectedTitles: expected,
			Description:    fmt.Sprintf("substring %q", phrase),
		})
	}
	for _, m := range misspellings {
		if m.topic >= n {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:          m.query,
			ExpectedTitles: []string{answers[m.topic].Title},
			Fuzzy:          true,
			Description:    fmt.Sprintf("fuzzy %q", m.query),
		})
	}

	return &Corpus{
		Answers:      answers,
		TestCases:    cases,
		TotalAnswers: len(answers),
		TotalQueries: len(cases),
	}
}

func containsPhrase(a Answer, phrase string) bool {
	p := strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(a.Title), p) || strings.Contains(strings.ToLower(a.Content), p)
}
