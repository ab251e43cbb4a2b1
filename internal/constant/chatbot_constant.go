package constant

const (
	// Redis pub/sub channel shared by every hub instance.
	ActivityChannel = "podbot_activity"

	// Watermill topic carrying session domain events in-process.
	SessionEventsTopic = "session_events"

	PodBotSystemPrompt = `You are PodBot, an enthusiastic podcast expert and recommendation engine.
You ONLY discuss podcasts - shows, hosts, episodes, formats, platforms, and the
podcasting industry.

You have extensive knowledge of podcasts across all genres and formats,
from popular mainstream shows to niche indie productions. You're also
well-versed in podcast platforms, apps, and the broader podcasting industry.

Always stay on topic - if someone asks about anything other than podcasts,
politely redirect them back to podcast discussions. Remember their preferences
and past recommendations across our conversations.

Be enthusiastic, knowledgeable, and ready to make personalized recommendations
based on what they've enjoyed before.`

	// Prefix for the working-memory summary when it is handed to the model.
	SummaryPromptPrefix = "Summary of the earlier conversation:\n"
)

// Session event types.
const (
	EventSessionCreated       = "SESSION_CREATED"
	EventMessageExchanged     = "MESSAGE_EXCHANGED"
	EventSessionCleared       = "SESSION_CLEARED"
	EventWorkingMemoryRebuilt = "WORKING_MEMORY_REBUILT"
)
