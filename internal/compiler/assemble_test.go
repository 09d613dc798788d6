package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verolang/verogen/internal/ast"
)

func click(page, field string) ast.Statement {
	return &ast.Click{Target: ast.Target{Page: page, Field: field}}
}

func loginProgram() *ast.Program {
	return &ast.Program{
		Pages: []*ast.Page{
			{
				Name: "LoginPage",
				Fields: []ast.Field{
					{Name: "emailInput", Selector: ast.Selector{Kind: ast.SelLabel, Value: "Email"}},
					{Name: "submitButton", Selector: ast.Selector{Kind: ast.SelButton, Value: "Log in"}},
				},
				Actions: []*ast.Action{
					{
						Name:   "logIn",
						Params: []ast.Param{{Name: "email", Type: "text"}},
						Statements: []ast.Statement{
							&ast.Fill{Target: ast.Target{Field: "emailInput"}, Value: &ast.VarRef{Name: "email"}},
							click("", "submitButton"),
						},
					},
				},
			},
		},
		Features: []*ast.Feature{
			{
				Name: "Login",
				Scenarios: []*ast.Scenario{
					{
						Name: "valid credentials",
						Statements: []ast.Statement{
							&ast.Open{URL: &ast.StringLit{Value: "/login"}},
							&ast.CallAction{Page: "LoginPage", Action: "logIn", Args: []ast.Expr{&ast.StringLit{Value: "a@b.c"}}},
							&ast.Verify{Target: ast.Target{Page: "LoginPage", Field: "submitButton"}, Check: ast.VerifyHidden},
						},
					},
				},
			},
		},
	}
}

func TestCompileBasicFeature(t *testing.T) {
	out := Compile(loginProgram(), Options{BaseURL: "https://app.example.com"})

	require.Len(t, out.Pages, 1)
	require.Len(t, out.Features, 1)
	assert.Nil(t, out.FixtureIndex)
	assert.Empty(t, out.Warnings)

	page := out.Pages[0].Code
	assert.Equal(t, "LoginPage.ts", out.Pages[0].FileName)
	assert.Contains(t, page, "export class LoginPage {")
	assert.Contains(t, page, "get emailInput(): Locator {")
	assert.Contains(t, page, `return this.page.getByLabel("Email");`)
	assert.Contains(t, page, "async logIn(email: string): Promise<void> {")
	assert.Contains(t, page, "await this.emailInput.fill(String(email));")
	assert.Contains(t, page, "await this.submitButton.click();")

	feature := out.Features[0].Code
	assert.Equal(t, "login.spec.ts", out.Features[0].FileName)
	assert.Contains(t, feature, "import { test, expect } from '@playwright/test';")
	assert.Contains(t, feature, "import { LoginPage } from '../pages/LoginPage';")
	assert.Contains(t, feature, `test.describe("Login", () => {`)
	assert.Contains(t, feature, `test("valid credentials", async ({ page }) => {`)
	assert.Contains(t, feature, "const loginPage = new LoginPage(page);")
	assert.Contains(t, feature, `await page.goto(String("https://app.example.com" + "/login"));`)
	assert.Contains(t, feature, `await loginPage.logIn("a@b.c");`)
	assert.Contains(t, feature, "await expect(loginPage.submitButton).toBeHidden();")
}

func TestCompileIsDeterministic(t *testing.T) {
	program := loginProgram()
	first := Compile(program, Options{})
	second := Compile(program, Options{})

	require.Len(t, second.Features, len(first.Features))
	for i := range first.Features {
		assert.Equal(t, first.Features[i].Code, second.Features[i].Code)
	}
	for i := range first.Pages {
		assert.Equal(t, first.Pages[i].Code, second.Pages[i].Code)
	}
}

func TestCompilePreloadCoversCalledActions(t *testing.T) {
	// The table is only touched inside a page action; the feature that calls
	// the action must still preload it.
	program := loginProgram()
	program.Pages[0].Actions[0].Statements = append(program.Pages[0].Actions[0].Statements,
		&ast.RowAssignment{Name: "user", Table: ast.TableReference{Project: "crm", Table: "users"}})

	out := Compile(program, Options{DataFile: "fixtures.json"})
	feature := out.Features[0].Code
	assert.Contains(t, feature, "test.beforeAll(async () => {")
	assert.Contains(t, feature, `await vero.preload("fixtures.json", ["crm.users"]);`)
	assert.Contains(t, feature, "const tables = vero.tables();")
}

func TestCompileTabContextShapesSignature(t *testing.T) {
	program := loginProgram()
	scenario := program.Features[0].Scenarios[0]
	scenario.Statements = append(scenario.Statements, &ast.TryCatch{
		Try: []ast.Statement{
			&ast.Repeat{Count: 2, Body: []ast.Statement{&ast.SwitchTab{Last: true}}},
		},
	})

	out := Compile(program, Options{})
	feature := out.Features[0].Code
	// Detection reaches through any nesting depth.
	assert.Contains(t, feature, "async ({ page: initialPage, context }) => {")
	assert.Contains(t, feature, "let page = initialPage;")
	assert.Contains(t, feature, "page = context.pages()[context.pages().length - 1];")
}

func TestCompileFrameAndAPIContext(t *testing.T) {
	program := loginProgram()
	scenario := program.Features[0].Scenarios[0]
	scenario.Statements = append(scenario.Statements,
		&ast.SwitchFrame{Selector: &ast.Selector{Kind: ast.SelCSS, Value: "#payment"}},
		&ast.ApiRequest{Assign: "res", Method: "POST", URL: &ast.StringLit{Value: "https://api.example.com/reset"}},
	)

	out := Compile(program, Options{})
	feature := out.Features[0].Code
	assert.Contains(t, feature, "async ({ page, request }) => {")
	assert.Contains(t, feature, "let frame: ReturnType<Page['frameLocator']> | null = null;")
	assert.Contains(t, feature, `frame = (frame ?? page).locator("#payment").contentFrame();`)
	assert.Contains(t, feature, `const res = await request.post(String("https://api.example.com/reset"));`)
}

func TestCompileAnnotationsAndHooks(t *testing.T) {
	program := loginProgram()
	f := program.Features[0]
	f.Annotations.Serial = true
	f.Hooks = []*ast.Hook{
		{Kind: ast.BeforeEach, Statements: []ast.Statement{&ast.Open{URL: &ast.StringLit{Value: "https://app.example.com"}}}},
	}
	f.Scenarios = append(f.Scenarios, &ast.Scenario{
		Name:        "slow tagged",
		Tags:        []string{"smoke", "@regression"},
		Annotations: ast.ScenarioAnnotations{Slow: true},
	})

	out := Compile(program, Options{})
	feature := out.Features[0].Code
	assert.Contains(t, feature, "test.describe.configure({ mode: 'serial' });")
	assert.Contains(t, feature, "test.beforeEach(async ({ page }) => {")
	assert.Contains(t, feature, `test("slow tagged", { tag: ["@smoke", "@regression"] }, async ({ page }) => {`)
	assert.Contains(t, feature, "test.slow();")
}

func TestCompileUnknownStatementIsFailSoft(t *testing.T) {
	program := loginProgram()
	scenario := program.Features[0].Scenarios[0]
	scenario.Statements = append(scenario.Statements, &ast.Unknown{Kind: "teleport"})

	out := Compile(program, Options{})
	feature := out.Features[0].Code
	// The placeholder is inert, the rest of the scenario still compiled.
	assert.Contains(t, feature, `// vero: unsupported statement "teleport"`)
	assert.Contains(t, feature, `await loginPage.logIn("a@b.c");`)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "teleport")
}

func TestCompileDebugInstrumentation(t *testing.T) {
	out := Compile(loginProgram(), Options{Debug: true})

	feature := out.Features[0].Code
	assert.Contains(t, feature, "import { __stepper } from '../fixtures';")
	assert.Contains(t, feature, `await __stepper.before(0, "open", "");`)
	assert.Contains(t, feature, "} catch (err) {")
	assert.Contains(t, feature, "await __stepper.after(0, 'failed', String(err));")
	assert.Contains(t, feature, "throw err;")
	assert.Contains(t, feature, "await __stepper.after(0, 'passed');")

	// Debug mode materializes the fixture index even without fixtures.
	require.NotNil(t, out.FixtureIndex)
	assert.Contains(t, out.FixtureIndex.Code, "class VeroStepper")
	assert.Contains(t, out.FixtureIndex.Code, "export const __stepper = new VeroStepper();")

	// Page action bodies are never instrumented.
	assert.NotContains(t, out.Pages[0].Code, "__stepper")
}

func TestCompileDebugKeepsStepperOutOfSupportUnits(t *testing.T) {
	program := loginProgram()
	program.Actions = []*ast.ActionGroup{
		{
			Name: "Navigation",
			Actions: []*ast.Action{
				{
					Name: "goHome",
					Statements: []ast.Statement{
						&ast.SetVariable{Name: "visits", Value: &ast.NumberLit{Value: 1}},
						&ast.Open{URL: &ast.StringLit{Value: "https://app.example.com"}},
					},
				},
			},
		},
	}
	program.Fixtures = []*ast.Fixture{
		{
			Name:  "seededUser",
			Scope: ast.ScopeTest,
			Setup: []ast.Statement{
				&ast.RowAssignment{Name: "user", Table: ast.TableReference{Project: "crm", Table: "users"}},
			},
		},
	}
	program.Features[0].Scenarios[0].Statements = append(program.Features[0].Scenarios[0].Statements,
		&ast.RowAssignment{Name: "admin", Table: ast.TableReference{Project: "crm", Table: "users"}})

	out := Compile(program, Options{Debug: true})

	// Only feature units import the stepper, so variable reporting must not
	// leak into units that cannot reference it.
	assert.NotContains(t, out.Actions[0].Code, "__stepper")
	assert.NotContains(t, out.Fixtures[0].Code, "__stepper")
	assert.NotContains(t, out.Pages[0].Code, "__stepper")
	assert.Contains(t, out.Features[0].Code, `await __stepper.variable("admin", admin);`)
}

func TestCompileFileNamesKeepCamelBoundaries(t *testing.T) {
	program := loginProgram()
	program.Features[0].Name = "CheckoutFlowV2"

	out := Compile(program, Options{})
	assert.Equal(t, "checkout-flow-v2.spec.ts", out.Features[0].FileName)
}

func TestCompileFixtures(t *testing.T) {
	program := loginProgram()
	program.Fixtures = []*ast.Fixture{
		{
			Name:  "seededUser",
			Scope: ast.ScopeTest,
			Auto:  true,
			Setup: []ast.Statement{
				&ast.RowAssignment{Name: "user", Table: ast.TableReference{Project: "crm", Table: "users"}},
			},
			Teardown: []ast.Statement{
				&ast.LogMessage{Value: &ast.StringLit{Value: "cleanup"}},
			},
		},
		{Name: "dbPool", Scope: ast.ScopeWorker},
	}

	out := Compile(program, Options{})
	require.Len(t, out.Fixtures, 2)
	require.NotNil(t, out.FixtureIndex)

	seeded := out.Fixtures[0].Code
	assert.Equal(t, "seeded-user.fixture.ts", out.Fixtures[0].FileName)
	assert.Contains(t, seeded, "export async function seededUserFixture({ page }: { page: Page }, use: (value: void) => Promise<void>): Promise<void> {")
	assert.Contains(t, seeded, `await vero.preload("vero-data.json", ["crm.users"]);`)
	assert.Contains(t, seeded, "await use(undefined);")
	assert.Contains(t, seeded, `console.log("cleanup");`)

	index := out.FixtureIndex.Code
	assert.Contains(t, index, "import { seededUserFixture } from './seeded-user.fixture';")
	assert.Contains(t, index, "seededUser: [seededUserFixture, { scope: 'test', auto: true }]")
	assert.Contains(t, index, "dbPool: [dbPoolFixture, { scope: 'worker' }]")
	assert.Contains(t, index, "export { expect };")

	// Features now import from the generated index.
	assert.Contains(t, out.Features[0].Code, "import { test, expect } from '../fixtures';")
}

func TestCompileActionGroups(t *testing.T) {
	program := loginProgram()
	program.Actions = []*ast.ActionGroup{
		{
			Name: "Navigation",
			Actions: []*ast.Action{
				{
					Name: "goHome",
					Statements: []ast.Statement{
						&ast.Open{URL: &ast.StringLit{Value: "https://app.example.com"}},
					},
				},
			},
		},
	}
	program.Features[0].Scenarios[0].Statements = append(program.Features[0].Scenarios[0].Statements,
		&ast.CallAction{Page: "Navigation", Action: "goHome"})

	out := Compile(program, Options{})
	require.Len(t, out.Actions, 1)
	assert.Equal(t, "navigation.actions.ts", out.Actions[0].FileName)
	assert.Contains(t, out.Actions[0].Code, "export async function goHome(page: Page): Promise<void> {")

	feature := out.Features[0].Code
	assert.Contains(t, feature, "import { goHome } from '../pages/navigation.actions';")
	assert.Contains(t, feature, "await goHome(page);")
}
