// footprintctl runs the footprint carbon tracking API and its maintenance
// commands.
//
// Users log daily activity (distance by transport mode, electricity and LPG
// use). The server turns it into kg CO2 with fixed emission factors and
// serves history, summaries, weekly goals, a public leaderboard and AI
// generated reduction tips.
//
// # Quick Start
//
//	# Generate a token signing secret
//	export FOOTPRINT_TOKEN_SECRET="$(footprintctl token-secret generate)"
//
//	# Create the schema (also done by "server" unless --no-migrate)
//	footprintctl db migrate
//
//	# Register a user and keep the printed API key
//	footprintctl user create kim@example.com
//
//	# Start the server
//	footprintctl server --watch-config
//
// # Environment Variables
//
//   - FOOTPRINT_DATABASE_URL: sqlite file path or postgres:// URL (default footprint.db)
//   - FOOTPRINT_REMOTE_DATABASE_URL: optional postgres replica written first
//   - FOOTPRINT_TOKEN_SECRET: base64 secret of at least 32 bytes
//   - FOOTPRINT_AI_API_KEY: Gemini API key enabling POST /insights/tips
//   - FOOTPRINT_AUTHENTICATORS: comma-separated list of enabled authenticators
//   - FOOTPRINT_LOG_LEVEL: debug, info, warn or error
//   - FOOTPRINT_CONFIG_PATH: directory holding footprint.yml (default /etc/footprint)
//   - PORT, BIND_ADDRESS: listen address (default 0.0.0.0:8000)
package main
