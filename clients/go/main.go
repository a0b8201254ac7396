// summarAIze CLI - command line client for the dashboard API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/RitochitGhosh/summarAIze/clients/go/summaraize"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("SUMMARAIZE_URL")
	token := os.Getenv("SUMMARAIZE_TOKEN")

	client := summaraize.NewClient(baseURL, token)
	ctx := context.Background()
	cmd := os.Args[1]

	switch cmd {
	case "agents":
		agents, err := client.ListAgents(ctx)
		exitOnError(err)
		for _, a := range agents {
			fmt.Printf("  %s  %s\n", a.ID, a.Name)
		}

	case "new-agent":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: summaraize new-agent <name> <instructions>")
			os.Exit(1)
		}
		agent, err := client.CreateAgent(ctx, summaraize.CreateAgentInput{
			Name:         os.Args[2],
			Instructions: os.Args[3],
		})
		exitOnError(err)
		printJSON(agent)

	case "meetings":
		page := 1
		if len(os.Args) > 2 {
			page, _ = strconv.Atoi(os.Args[2])
		}
		search := ""
		if len(os.Args) > 3 {
			search = os.Args[3]
		}
		result, err := client.ListMeetings(ctx, page, 0, search)
		exitOnError(err)
		for _, m := range result.Items {
			fmt.Printf("  %s  %-10s  %s\n", m.ID, m.Status, m.Name)
		}
		fmt.Printf("page %d of %d (%d total)\n", page, result.TotalPages, result.Total)

	case "meeting":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: summaraize meeting <id>")
			os.Exit(1)
		}
		detail, err := client.GetMeeting(ctx, os.Args[2])
		exitOnError(err)
		printJSON(detail)

	case "new-meeting":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: summaraize new-meeting <name> [agent-id]")
			os.Exit(1)
		}
		input := summaraize.CreateMeetingInput{Name: os.Args[2]}
		if len(os.Args) > 3 {
			input.AgentID = &os.Args[3]
		}
		meeting, err := client.CreateMeeting(ctx, input)
		exitOnError(err)
		printJSON(meeting)

	case "cancel":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: summaraize cancel <id>")
			os.Exit(1)
		}
		status := "cancelled"
		meeting, err := client.UpdateMeeting(ctx, os.Args[2], summaraize.UpdateMeetingInput{Status: &status})
		exitOnError(err)
		printJSON(meeting)

	case "remove":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: summaraize remove <id>")
			os.Exit(1)
		}
		meeting, err := client.DeleteMeeting(ctx, os.Args[2])
		exitOnError(err)
		printJSON(meeting)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: summaraize <command> [args]

Commands:
  agents                       list all agents
  new-agent <name> <instr>     create an agent
  meetings [page] [search]     list meetings
  meeting <id>                 show one meeting with lifecycle state
  new-meeting <name> [agent]   create a meeting
  cancel <id>                  cancel an upcoming meeting
  remove <id>                  delete a meeting

Environment:
  SUMMARAIZE_URL    server base URL (default http://localhost:8080)
  SUMMARAIZE_TOKEN  session token`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
