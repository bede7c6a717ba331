// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BASE PALETTE
// =============================================================================

// Primary accents
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
var PurpleDeep = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#7C3AED"}
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
var CyanDeep = lipgloss.AdaptiveColor{Light: "#155E75", Dark: "#0891B2"}

// Semantic accents
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Surfaces
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#181825"}
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#313244"}
var Overlay = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#45475A"}
var OverlayDim = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#313244"}

// Text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#11111B"}

// =============================================================================
// MESSAGE COLORS
// =============================================================================

// User messages - Purple family
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#EDE9FE", Dark: "#2D2B55"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#C4B5FD"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#8B5CF6", Dark: "#8B5CF6"}

// Assistant messages - Cyan family
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#ECFEFF", Dark: "#164E63"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#155E75", Dark: "#A5F3FC"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#06B6D4", Dark: "#06B6D4"}

// Error entries - Rose family
var ErrorBubbleBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}
var ErrorBubbleFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}
var ErrorBubbleBorder = lipgloss.AdaptiveColor{Light: "#F43F5E", Dark: "#F43F5E"}

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}
