package dashboard

import (
	"fmt"
	"math"
	"math/rand"
)

// Daily message templates, picked at random and formatted with the absolute
// profit figure.
var positiveMessages = []string{
	"A strong day in the market — your portfolio gained ₹%.2f. Every win compounds your long-term growth.",
	"Good day for the bulls! ₹%.2f added to your wealth today — consistency is your superpower.",
	"The market smiled today. You earned ₹%.2f — small steps, big dreams.",
	"₹%.2f profit today! Another step forward on your wealth journey.",
	"Momentum is on your side — ₹%.2f gained and a reminder that patience pays.",
	"Profit of ₹%.2f today! Keep the discipline, enjoy the progress.",
	"₹%.2f in green — smart investing looks good on you.",
	"The market rewarded patience — ₹%.2f up today. Keep letting your money work.",
	"Bulls are charging — ₹%.2f profit today! Your strategy is paying off.",
	"₹%.2f gained today. The trend is your friend — ride it with patience.",
	"Steady hands paid off — ₹%.2f profit and growing confidence.",
	"The bulls kept running — ₹%.2f gain today. Stay invested, stay rewarded.",
}

var negativeMessages = []string{
	"A red day with ₹%.2f dip, but remember — volatility builds resilience.",
	"₹%.2f down today, but wealth creation isn't about today — it's about staying the course.",
	"Markets cooled off — ₹%.2f loss. Every storm builds stronger investors.",
	"₹%.2f in red, but every correction sets up the next opportunity.",
	"Tough day in the market — ₹%.2f down, but consistency beats timing.",
	"₹%.2f loss today, but investing is a marathon, not a sprint. Stay invested.",
	"Even great investors have red days — ₹%.2f down, but your strategy stands tall.",
	"The bears took control — ₹%.2f down, but every dip plants the seeds of future gains.",
	"₹%.2f lost today, but patience turns dips into opportunities.",
	"The market took a pause — ₹%.2f down, but your long-term growth story remains intact.",
	"₹%.2f loss today, but corrections pave the way for the next rally.",
	"₹%.2f drop today, but disciplined investors always win over time.",
}

// quotes shown on the dashboard, rotated client-side.
var quotes = []string{
	"The best investment you can make is in yourself. — Warren Buffett",
	"Know what you own, and know why you own it. — Peter Lynch",
	"Price is what you pay. Value is what you get. — Warren Buffett",
	"An investment in knowledge pays the best interest. — Benjamin Franklin",
	"Time in the market beats timing the market. — Ken Fisher",
	"Risk comes from not knowing what you're doing. — Warren Buffett",
	"In investing, what is comfortable is rarely profitable. — Robert Arnott",
	"Compound interest is the eighth wonder of the world. — Albert Einstein",
	"Diversification is protection against ignorance. — Warren Buffett",
	"Investing should be more like watching paint dry or grass grow. — Paul Samuelson",
	"The intelligent investor is a realist who sells to optimists and buys from pessimists. — Ben Graham",
	"In the short run, the market is a voting machine; in the long run, it's a weighing machine. — Benjamin Graham",
	"Patience is a competitive advantage. — Morgan Housel",
	"Investing is simple, but not easy. — Warren Buffett",
	"Be fearful when others are greedy, and greedy when others are fearful. — Warren Buffett",
	"If you can't sleep because of your investments, you're overexposed. — George Soros",
}

// Quotes returns the dashboard quote pool.
func Quotes() []string {
	out := make([]string, len(quotes))
	copy(out, quotes)
	return out
}

func dailyMessage(rng *rand.Rand, profit float64) string {
	messages := negativeMessages
	if profit > 0 {
		messages = positiveMessages
	}
	template := messages[rng.Intn(len(messages))]
	return fmt.Sprintf(template, math.Abs(profit))
}
