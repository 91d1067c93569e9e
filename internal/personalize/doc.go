// Package personalize generates the one-line personalization hook used in
// cold email openers. Two providers are supported: any OpenAI-compatible
// chat completions endpoint, and Anthropic models on AWS Bedrock.
package personalize
