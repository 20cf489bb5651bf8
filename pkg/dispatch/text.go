package dispatch

// HelpText is the static help shown for the help intent and at the start
// of interactive mode.
const HelpText = `I understand natural language commands for managing your tasks.
You can talk to me like you would to a colleague!

Categories of commands I understand:
• Viewing tasks (yours, others, due dates, priorities)
• Creating tasks
• Updating task status
• Team and workspace information
• Task summaries and statistics

Type 'examples' to see specific examples.
Type 'quit' or 'exit' to leave.`

// ExamplesText is shown for the examples intent and whenever an utterance
// matches nothing.
const ExamplesText = `Example commands:

VIEWING YOUR TASKS:
• "show my tasks"
• "what do I need to do today?"
• "list tasks due this week"
• "show overdue tasks"

VIEWING OTHERS' TASKS:
• "show jeremy's tasks"
• "what is rolla working on?"
• "list tasks for sachin"

PRIORITIES & SUMMARIES:
• "show urgent tasks"
• "what are the high priority items?"
• "summarize my tasks"
• "how many tasks do I have?"

DETAILED VIEWS:
• "show detailed tasks"
• "view tasks with comments"
• "full task list"

TEAM INFO:
• "show teams"
• "list workspaces"
• "who am i?"

CREATING TASKS:
• "create task 'Review PR #123'"
• "add 'Fix login bug' to my list"
• "remind me to update documentation"

Note: Some commands will provide instructions for completing the action.`
