// Package telegram sends concert announcements through the Telegram Bot API.
//
// Messages are plain HTTP requests to the Bot API with HTML parse mode.
// Authentication requires a bot token (from @BotFather) and a chat ID.
package telegram
