package event

import (
	"time"

	"github.com/agentflow/agentcore/jsonvalue"
)

// Canonical event names produced by collaborators (agent runtime, tool
// invoker, workflow engine). Payload shapes are fixed per name.
const (
	NameAgentStarted          = "agent.started"
	NameAgentCompleted        = "agent.completed"
	NameAgentFailed           = "agent.failed"
	NameToolInvoked           = "tool.invoked"
	NameToolSucceeded         = "tool.succeeded"
	NameToolFailed            = "tool.failed"
	NameWorkflowStepStarted   = "workflow.step_started"
	NameWorkflowStepCompleted = "workflow.step_completed"
)

func payloadObject(pairs ...jsonPair) jsonvalue.Value {
	o := jsonvalue.NewObject()
	for _, p := range pairs {
		o.Set(p.key, p.val)
	}
	return jsonvalue.FromObject(o)
}

type jsonPair struct {
	key string
	val jsonvalue.Value
}

func kv(key string, val jsonvalue.Value) jsonPair { return jsonPair{key, val} }

// AgentStarted builds the canonical agent.started event.
func AgentStarted(agentID, runID string, meta Metadata) Event {
	payload := payloadObject(
		kv("agent_id", jsonvalue.String(agentID)),
		kv("run_id", jsonvalue.String(runID)),
	)
	return New(NameAgentStarted, CategoryAgent, SeverityInfo, meta, payload)
}

// AgentCompleted builds the canonical agent.completed event.
func AgentCompleted(agentID, runID string, duration time.Duration, meta Metadata) Event {
	payload := payloadObject(
		kv("agent_id", jsonvalue.String(agentID)),
		kv("run_id", jsonvalue.String(runID)),
		kv("duration_ms", jsonvalue.Int(duration.Milliseconds())),
	)
	return New(NameAgentCompleted, CategoryAgent, SeverityInfo, meta, payload)
}

// AgentFailed builds the canonical agent.failed event.
func AgentFailed(agentID, runID, errMsg string, meta Metadata) Event {
	payload := payloadObject(
		kv("agent_id", jsonvalue.String(agentID)),
		kv("run_id", jsonvalue.String(runID)),
		kv("error", jsonvalue.String(errMsg)),
	)
	return New(NameAgentFailed, CategoryAgent, SeverityError, meta, payload)
}

// ToolInvoked builds the canonical tool.invoked event.
func ToolInvoked(toolName, toolCallID string, input jsonvalue.Value, meta Metadata) Event {
	payload := payloadObject(
		kv("tool_name", jsonvalue.String(toolName)),
		kv("tool_call_id", jsonvalue.String(toolCallID)),
		kv("input", input),
	)
	return New(NameToolInvoked, CategoryTool, SeverityDebug, meta, payload)
}

// ToolSucceeded builds the canonical tool.succeeded event.
func ToolSucceeded(toolName, toolCallID string, output jsonvalue.Value, duration time.Duration, meta Metadata) Event {
	payload := payloadObject(
		kv("tool_name", jsonvalue.String(toolName)),
		kv("tool_call_id", jsonvalue.String(toolCallID)),
		kv("output", output),
		kv("duration_ms", jsonvalue.Int(duration.Milliseconds())),
	)
	return New(NameToolSucceeded, CategoryTool, SeverityInfo, meta, payload)
}

// ToolFailed builds the canonical tool.failed event.
func ToolFailed(toolName, toolCallID, errMsg string, duration time.Duration, meta Metadata) Event {
	payload := payloadObject(
		kv("tool_name", jsonvalue.String(toolName)),
		kv("tool_call_id", jsonvalue.String(toolCallID)),
		kv("error", jsonvalue.String(errMsg)),
		kv("duration_ms", jsonvalue.Int(duration.Milliseconds())),
	)
	return New(NameToolFailed, CategoryTool, SeverityError, meta, payload)
}

// WorkflowStepStarted builds the canonical workflow.step_started event.
func WorkflowStepStarted(workflowID, stepID, stepType string, meta Metadata) Event {
	payload := payloadObject(
		kv("workflow_id", jsonvalue.String(workflowID)),
		kv("step_id", jsonvalue.String(stepID)),
		kv("step_type", jsonvalue.String(stepType)),
	)
	return New(NameWorkflowStepStarted, CategoryWorkflow, SeverityDebug, meta, payload)
}

// WorkflowStepCompleted builds the canonical workflow.step_completed event.
func WorkflowStepCompleted(workflowID, stepID string, duration time.Duration, meta Metadata) Event {
	payload := payloadObject(
		kv("workflow_id", jsonvalue.String(workflowID)),
		kv("step_id", jsonvalue.String(stepID)),
		kv("duration_ms", jsonvalue.Int(duration.Milliseconds())),
	)
	return New(NameWorkflowStepCompleted, CategoryWorkflow, SeverityInfo, meta, payload)
}
